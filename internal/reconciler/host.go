package reconciler

// Host is the platform binding the engine renders onto. Host objects are
// opaque to the engine; it only hands back what the host created.
type Host interface {
	CreateElement(tag string) any
	CreateText(text string) any

	// SetText refreshes the value of a text object.
	SetText(text any, value string)

	// SetTextContent replaces an element's content with the given text.
	SetTextContent(el any, value string)

	SetProperty(el any, name string, value any)
	RemoveProperty(el any, name string)

	AddEventListener(el any, event string, handler any)
	RemoveEventListener(el any, event string, handler any)

	AppendChild(parent, child any)
	InsertBefore(parent, child, before any)
	RemoveChild(parent, child any)
}
