package issuance

// Guard is a non-reentrant entry flag. Enter sets it and returns the release
// func that clears it; callers defer the release so every exit path clears the
// flag.
type Guard struct {
	entered bool
}

// Enter acquires the guard or fails with ErrReentrant.
func (g *Guard) Enter() (release func(), err error) {
	if g.entered {
		return nil, ErrReentrant
	}
	g.entered = true
	return func() { g.entered = false }, nil
}

// Entered reports whether a guarded call is in flight.
func (g *Guard) Entered() bool { return g.entered }
