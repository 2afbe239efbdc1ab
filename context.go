package docweaver

// ConversionContext is threaded by value through one conversion. It is
// never modified in place; entering a doc root derives a copy bound to
// that document's assembly name.
type ConversionContext struct {
	AssemblyName string
	Policy       UnknownTagPolicy
	Sink         WarningSink
}

// WithAssemblyName returns a copy of c bound to name.
func (c ConversionContext) WithAssemblyName(name string) ConversionContext {
	c.AssemblyName = name
	return c
}

func (c ConversionContext) warn(message string) {
	if c.Sink != nil {
		c.Sink.AcceptWarning(message)
	}
}
