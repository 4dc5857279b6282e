package cinemeta

// metaResponse is the wire shape of a meta lookup.
type metaResponse struct {
	Meta *metaObject `json:"meta"`
}

// metaObject carries the subset of fields the resolver needs. Year is a
// string on the wire; series use a range like "2011-2019".
type metaObject struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	Year        string `json:"year"`
	ReleaseInfo string `json:"releaseInfo"`
}
