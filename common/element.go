package common

import "net/http"

// webElementIdentifier is the W3C key carrying an element handle in find
// responses.
const webElementIdentifier = "element-6066-11e4-a52e-4f735466cecf"

// Selector is a W3C element location strategy.
type Selector string

const (
	SelectorCSS             Selector = "css selector"
	SelectorXPath           Selector = "xpath"
	SelectorTagName         Selector = "tag name"
	SelectorLinkText        Selector = "link text"
	SelectorPartialLinkText Selector = "partial link text"
)

// Element is a handle to one DOM element located in a tab. Like tab commands,
// element commands select the owning tab before acting.
type Element struct {
	id  string
	tab *Tab
}

// ID returns the server-issued element handle.
func (e *Element) ID() string {
	return e.id
}

// Click clicks the element.
func (e *Element) Click() error {
	value, err := e.tab.do(http.MethodPost, "/element/"+e.id+"/click", map[string]any{})
	if err != nil {
		return err
	}
	return requireNull(value)
}

// Text returns the rendered text of the element.
func (e *Element) Text() (string, error) {
	value, err := e.tab.do(http.MethodGet, "/element/"+e.id+"/text", nil)
	if err != nil {
		return "", err
	}
	return requireString(value)
}

// Attribute returns the value of the named attribute.
func (e *Element) Attribute(name string) (string, error) {
	value, err := e.tab.do(http.MethodGet, "/element/"+e.id+"/attribute/"+name, nil)
	if err != nil {
		return "", err
	}
	return requireString(value)
}
