package render

import "context"

type Renderer interface {
	RenderProduct(ctx context.Context, page ProductPage) ([]byte, error)
	RenderIndex(ctx context.Context, page IndexPage) ([]byte, error)
}
