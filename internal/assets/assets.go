package assets

var defaultLoader = NewEmbeddedLoader()

// LoadStyle returns the built-in stylesheet called name, without its .css
// extension.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTemplate returns the built-in page skeleton called name.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}
