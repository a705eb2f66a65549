package config

import (
	domainerr "github.com/lionel-solria/deviseur/internal/domain/errors"
	"gopkg.in/yaml.v3"
	"os"
	"path/filepath"
	"strings"
)

type Config struct {
	Site   SiteConfig   `yaml:"site"`
	Build  BuildConfig  `yaml:"build"`
	Render RenderConfig `yaml:"render"`
}

type SiteConfig struct {
	Language   string `yaml:"language"`
	IndexTitle string `yaml:"index_title"`
	IndexIntro string `yaml:"index_intro"`
	Footer     string `yaml:"footer"`
}

type BuildConfig struct {
	// 分号分隔的 CSV 导出文件
	Input string `yaml:"input"`
	// 产品页与 index.html 的输出目录；样式表写到同级的 styles 目录
	OutputDir string `yaml:"output_dir"`
	IndexPath string `yaml:"index_path"`
	ThemeDir  string `yaml:"theme_dir"`
}

type RenderConfig struct {
	MarkdownDescription bool `yaml:"markdown_description"`
}

const (
	StylesDirName  = "styles"
	StylesheetName = "catalog-page.css"
	IndexPageName  = "index.html"
)

func Default() Config {
	return Config{
		Site: SiteConfig{
			Language:   "fr",
			IndexTitle: "Fiches produits",
			IndexIntro: "Consultez les fiches individuelles générées à partir du fichier CSV.",
			Footer:     "© Deviseur – Catalogue produits",
		},
		Build: BuildConfig{
			Input:     filepath.Join("catalogue", "import_items.csv"),
			OutputDir: filepath.Join("catalogue", "pages"),
			IndexPath: filepath.Join(".deviseur", "index.db"),
			ThemeDir:  "",
		},
	}
}

// StylesDir is the sibling of the pages directory holding the stylesheet.
func (b BuildConfig) StylesDir() string {
	return filepath.Join(filepath.Dir(filepath.Clean(b.OutputDir)), StylesDirName)
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if strings.TrimSpace(c.Site.Language) == "" {
		ve.Add("site.language", "must not be empty")
	}
	if strings.TrimSpace(c.Build.Input) == "" {
		ve.Add("build.input", "must not be empty")
	}

	out := strings.TrimSpace(c.Build.OutputDir)
	switch {
	case out == "":
		ve.Add("build.output_dir", "must not be empty")
	case filepath.Clean(out) == filepath.Dir(filepath.Clean(out)):
		// "/" 或 "." 之类没有父目录可放 styles
		ve.Add("build.output_dir", "must have a parent directory for styles")
	case filepath.Base(filepath.Clean(out)) == StylesDirName:
		ve.Add("build.output_dir", "must not be named 'styles'")
	}

	if strings.TrimSpace(c.Build.IndexPath) == "" {
		ve.Add("build.index_path", "must not be empty")
	}
	if td := strings.TrimSpace(c.Build.ThemeDir); td != "" {
		if info, err := os.Stat(td); err != nil || !info.IsDir() {
			ve.Add("build.theme_dir", "must be an existing directory")
		}
	}

	if ve.HasAny() {
		return ve
	}
	return nil
}

func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	// 文件中写到的字段覆盖默认值，其他字段保留 Default
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but a missing file yields Default().
func LoadOrDefault(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		cfg := Default()
		return cfg, cfg.Validate()
	}
	cfg, err := Load(path)
	if err != nil && os.IsNotExist(err) {
		cfg = Default()
		return cfg, cfg.Validate()
	}
	return cfg, err
}
