package target

// SetGOOS overrides the host operating system.
func (b *Builder) SetGOOS(goos string) {
	b.goos = goos
}
