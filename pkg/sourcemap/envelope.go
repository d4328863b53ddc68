package sourcemap

// Envelope is the Source Map v3 JSON wire record. Field order
// matches the stable emit order ToJSON produces: version, file?, names,
// sources, mappings, sourcesContent?, sourceRoot?. Unknown top-level keys
// are ignored on read and never emitted on write. SourcesContent entries
// are nilable to preserve the wire distinction between an empty string and
// a JSON null (no content recorded for that source).
type Envelope struct {
	Version        int       `json:"version"`
	File           *string   `json:"file,omitempty"`
	Names          []string  `json:"names"`
	Sources        []string  `json:"sources"`
	Mappings       string    `json:"mappings"`
	SourcesContent []*string `json:"sourcesContent,omitempty"`
	SourceRoot     *string   `json:"sourceRoot,omitempty"`
}
