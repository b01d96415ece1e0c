// fastview pushes server side view updates to a browser page: views render their
// initial html once, then emit element updates that the page applies by element id.
package fastview

import (
	"html/template"
)

// EleUpdate is an element identifier and a set of operations to apply to its attributes/content.
type EleUpdate struct {
	// The id by which to find the element
	EleId string
	// Op keys are attribute names or 'textContent', values are the strings to which these are set.
	// Example: ('cx','123') means 'set attribute cx to 123'. 'textContent' is a reserved key:
	// ('textContent','abc') means 'set ele.textContent to abc'.
	Ops []Op
}

// TextContent is the reserved op key for replacing an element's text.
const TextContent = "textContent"

// Op is a key and value. For example an svg attribute and its new value.
type Op struct {
	Key   string
	Value string
}

// ViewComponent is a server side view: Parse adds its initial form to a page template,
// Updates is the chan on which its element updates are published.
type ViewComponent interface {
	Updates() <-chan []EleUpdate
	// Parse defines the view-component's template within the passed parent template and
	// returns the defined name. Children may rely on funcs the parent already registered.
	Parse(*template.Template) (string, error)
}
