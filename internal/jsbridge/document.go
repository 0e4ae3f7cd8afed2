//go:build js && wasm

package jsbridge

import "syscall/js"

// Document implements bootstrap.Document over document.getElementById.
type Document struct {
	doc js.Value
}

func NewDocument() *Document {
	return &Document{doc: js.Global().Get("document")}
}

func (d *Document) element(id string) (js.Value, bool) {
	el := d.doc.Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return el, false
	}
	return el, true
}

// Remove is a no-op when the element is already gone.
func (d *Document) Remove(id string) {
	if el, ok := d.element(id); ok {
		el.Call("remove")
	}
}

func (d *Document) SetHTML(id, html string) {
	if el, ok := d.element(id); ok {
		el.Set("innerHTML", html)
	}
}

// Text returns the text content of an element, or false when it is absent.
func (d *Document) Text(id string) (string, bool) {
	el, ok := d.element(id)
	if !ok {
		return "", false
	}
	return el.Get("textContent").String(), true
}

// Hostname is window.location.hostname.
func Hostname() string {
	return js.Global().Get("location").Get("hostname").String()
}

// ResolveURL resolves ref against the page location.
func ResolveURL(ref string) string {
	return js.Global().Get("URL").New(ref, js.Global().Get("location").Get("href")).Get("href").String()
}
