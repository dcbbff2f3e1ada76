package reference

// Author is one parsed name from a BibTeX author list.
type Author struct {
	First  string `json:"first"`            // Given name(s)
	Last   string `json:"last"`             // Family name, including particles
	Suffix string `json:"suffix,omitempty"` // Jr., III, ...
}
