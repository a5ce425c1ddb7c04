package rod

// NewBrowserWithLauncher returns a Browser whose processes come from launch
// instead of Chrome. Each call to launch starts one process; the returned
// func stops it.
func NewBrowserWithLauncher(launch func() (stop func() error, err error), opts ...BrowserOption) (*Browser, error) {
	b := newBrowser(func() (*generation, error) {
		stop, err := launch()
		if err != nil {
			return nil, err
		}
		return &generation{shutdown: stop}, nil
	}, opts...)
	if err := b.start(); err != nil {
		return nil, err
	}
	return b, nil
}
