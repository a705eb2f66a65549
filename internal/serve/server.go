package serve

import (
	"context"
	"errors"
	"fmt"
	"github.com/fsnotify/fsnotify"
	"github.com/lionel-solria/deviseur/internal/app"
	domainbuild "github.com/lionel-solria/deviseur/internal/domain/build"
	"github.com/lionel-solria/deviseur/internal/domain/catalogue"
	"github.com/lionel-solria/deviseur/internal/domain/config"
	"github.com/lionel-solria/deviseur/internal/index"
	"github.com/lionel-solria/deviseur/internal/ingest"
	"github.com/lionel-solria/deviseur/internal/render"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ConfigLoader returns the effective configuration: file, overrides and
// validation applied.
type ConfigLoader func() (config.Config, error)

// Server renders the catalogue on demand from the index, without writing
// pages, and rebuilds the index when the catalogue, config or theme change.
// The pages prefix and the index path are fixed at New.
type Server struct {
	configPath string
	reload     ConfigLoader

	idx *index.Store

	mu   sync.RWMutex
	cfg  config.Config
	md   *render.MarkdownRenderer
	tpl  render.Renderer
	last domainbuild.Fingerprint

	routes    *app.RouteBuilder
	watcher   *fsnotify.Watcher
	watchOnce sync.Once
}

// New opens the index. reload is called on every rebuild to pick up config
// edits; nil keeps cfg for the server's lifetime.
func New(cfg config.Config, configPath string, reload ConfigLoader) (*Server, error) {
	st, err := index.Open(index.OpenOptions{Path: cfg.Build.IndexPath})
	if err != nil {
		return nil, fmt.Errorf("serve: failed to open index: %w", err)
	}
	s := &Server{
		cfg:        cfg,
		configPath: configPath,
		reload:     reload,
		idx:        st,
		routes:     app.NewRouteBuilder(cfg.Build),
	}
	return s, nil
}

func (s *Server) Close() error {
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	if s.idx != nil {
		return s.idx.Close()
	}
	return nil
}

// Handler exposes the routes without starting a listener.
func (s *Server) Handler() http.Handler {
	pagesPrefix := "/" + s.routes.PagesDir + "/"

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc(pagesPrefix, s.handlePage)
	mux.HandleFunc(s.routes.StylesheetRoute().URLPath(), s.handleStylesheet)
	return mux
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if err := s.Rebuild(ctx); err != nil {
		return err
	}
	if err := s.startWatch(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	log.Printf("[serve] listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) fingerprint(cfg config.Config) (domainbuild.Fingerprint, error) {
	var fp domainbuild.Fingerprint
	var err error
	if fp.SourceHash, err = domainbuild.HashFile(cfg.Build.Input); err != nil {
		return fp, err
	}
	if fp.ConfigHash, err = domainbuild.HashFile(s.configPath); err != nil {
		return fp, err
	}
	if fp.ThemeHash, err = domainbuild.HashDir(cfg.Build.ThemeDir); err != nil {
		return fp, err
	}
	fp.ComputeRenderHash()
	return fp, nil
}

func (s *Server) loadConfig() (config.Config, error) {
	if s.reload == nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.cfg, nil
	}
	return s.reload()
}

// Rebuild reloads the config and re-ingests the catalogue into the index.
// It is a no-op when no input changed since the last successful rebuild; on
// failure the previous config, templates and index keep serving.
func (s *Server) Rebuild(ctx context.Context) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	fp, err := s.fingerprint(cfg)
	if err != nil {
		return fmt.Errorf("fingerprint: %w", err)
	}
	s.mu.RLock()
	same := s.last.RenderHash == fp.RenderHash
	s.mu.RUnlock()
	if same {
		return nil
	}

	sourcePath := cfg.Build.Input
	log.Printf("[serve] ingest from %s ...", sourcePath)
	res, err := ingest.Ingest(sourcePath)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	for _, w := range res.Warnings {
		log.Printf("[warn] %s", w)
	}

	tpl, err := render.NewTemplateRenderer(cfg.Build.ThemeDir)
	if err != nil {
		return fmt.Errorf("templates: %w", err)
	}
	var md *render.MarkdownRenderer
	if cfg.Render.MarkdownDescription {
		md = render.NewMarkdownRenderer()
	}

	if err := s.idx.Rebuild(res.Products, index.RebuildOptions{
		SourceHash: res.SourceHash,
	}); err != nil {
		return fmt.Errorf("index rebuild: %w", err)
	}

	s.mu.Lock()
	s.cfg = cfg
	s.md = md
	s.tpl = tpl
	s.last = fp
	s.mu.Unlock()

	// input 或 theme_dir 改了路径时补上新目录
	if s.watcher != nil {
		for _, d := range s.watchDirs(cfg) {
			if err := s.watcher.Add(d); err != nil {
				log.Printf("[warn] watch %s: %v", d, err)
			}
		}
	}

	log.Printf("[serve] indexed %d products", len(res.Products))
	return nil
}

func (s *Server) watchDirs(cfg config.Config) []string {
	dirs := []string{filepath.Dir(cfg.Build.Input)}
	if s.configPath != "" {
		dirs = append(dirs, filepath.Dir(s.configPath))
	}
	if cfg.Build.ThemeDir != "" {
		dirs = append(dirs, cfg.Build.ThemeDir)
	}

	seen := make(map[string]struct{}, len(dirs))
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		d = filepath.Clean(d)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

func (s *Server) startWatch(ctx context.Context) error {
	var err error
	s.watchOnce.Do(func() {
		w, e := fsnotify.NewWatcher()
		if e != nil {
			err = e
			return
		}
		s.watcher = w

		// 监听目录而不是文件：编辑器保存时常用 rename 替换文件
		s.mu.RLock()
		cfg := s.cfg
		s.mu.RUnlock()
		for _, d := range s.watchDirs(cfg) {
			if e := w.Add(d); e != nil {
				err = fmt.Errorf("watch %s: %w", d, e)
				return
			}
		}
		go s.watchLoop(ctx)
	})
	return err
}

func (s *Server) watchLoop(ctx context.Context) {
	log.Printf("[serve] watching for file changes ...")
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()

	trigger := func() {
		debounce.Reset(200 * time.Millisecond)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				trigger()
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[warn] watcher error: %v", err)
		case <-debounce.C:
			ctx2, cancel := context.WithTimeout(ctx, 10*time.Second)
			if err := s.Rebuild(ctx2); err != nil {
				log.Printf("[serve] rebuild error: %v", err)
			}
			cancel()
		}
	}
}

// view is what one request renders with; it never mixes two rebuilds.
type view struct {
	tpl  render.Renderer
	site config.SiteConfig
	md   *render.MarkdownRenderer
}

func (s *Server) current() view {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view{tpl: s.tpl, site: s.cfg.Site, md: s.md}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, s.routes.IndexRoute().URLPath(), http.StatusFound)
}

// 产品页：/<pages>/<filename>；index.html 与空路径为索引页
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	v := s.current()
	if v.tpl == nil {
		http.Error(w, "catalogue not built yet", http.StatusServiceUnavailable)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/"+s.routes.PagesDir+"/")
	if name == "" || name == config.IndexPageName {
		s.handleIndex(w, r, v)
		return
	}

	p, err := s.idx.Get(name)
	if err != nil {
		if errors.Is(err, index.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Printf("product query error: %v", err)
		http.Error(w, "product query error", http.StatusInternalServerError)
		return
	}

	page, err := render.NewProductPage(v.site, p, v.md)
	if err != nil {
		log.Printf("markdown render error: %v", err)
		http.Error(w, "markdown render error", http.StatusInternalServerError)
		return
	}
	htmlBytes, err := v.tpl.RenderProduct(r.Context(), page)
	if err != nil {
		log.Printf("render product error: %v", err)
		http.Error(w, "render product error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, htmlBytes)
}

// 索引页支持 ?category= 过滤，便于预览某一类
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request, v view) {
	var (
		products []catalogue.Product
		err      error
	)
	if cat := strings.TrimSpace(r.URL.Query().Get("category")); cat != "" {
		products, err = s.idx.ListByCategory(cat)
	} else {
		products, err = s.idx.List()
	}
	if err != nil {
		log.Printf("index query error: %v", err)
		http.Error(w, "index query error", http.StatusInternalServerError)
		return
	}

	htmlBytes, err := v.tpl.RenderIndex(r.Context(), render.NewIndexPage(v.site, products))
	if err != nil {
		log.Printf("render index error: %v", err)
		http.Error(w, "render index error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, htmlBytes)
}

func (s *Server) handleStylesheet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write(render.Stylesheet())
}

func writeHTML(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}
