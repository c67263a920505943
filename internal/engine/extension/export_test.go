package extension

// SetGOOS overrides the host operating system.
func (b *Builder) SetGOOS(goos string) {
	b.goos = goos
}

// SetGetenv overrides the environment lookup.
func (b *Builder) SetGetenv(getenv func(string) string) {
	b.getenv = getenv
}
