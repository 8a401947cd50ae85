package sprite

// Option configures an Engine during creation.
//
// Example:
//
//	// Logical 320x180 scaled into a 1280x720 window.
//	e, err := sprite.NewEngine(320, 180, sprite.WithWindowSize(1280, 720))
type Option func(*engineOptions)

// engineOptions holds optional configuration for Engine creation.
type engineOptions struct {
	windowW int
	windowH int
}

func applyOptions(logicalW, logicalH int, opts []Option) engineOptions {
	o := engineOptions{
		windowW: logicalW,
		windowH: logicalH,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithWindowSize sets the initial window size in physical pixels. The
// logical resolution is scaled up into the window as far as it fits, never
// fractionally below 1x. Defaults to the logical size.
func WithWindowSize(width, height int) Option {
	return func(o *engineOptions) {
		o.windowW = width
		o.windowH = height
	}
}
