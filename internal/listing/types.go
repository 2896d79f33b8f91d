package listing

// Config holds the listing rules for every collection endpoint.
type Config struct {
	Entities map[string]Entity `yaml:"entities"`
}

// Entity describes how one collection is paged, ordered, searched and filtered.
type Entity struct {
	PageSize int `yaml:"page_size"`
	// Ordering is the default order; "-" prefix means descending.
	Ordering []string `yaml:"ordering"`
	// OrderingFields allow-lists what ?ordering= may name.
	OrderingFields []string `yaml:"ordering_fields"`
	// Search columns are matched case-insensitively by ?search=.
	Search []string `yaml:"search"`
	// Filters maps a query parameter to an exact-match column.
	Filters map[string]string `yaml:"filters"`
	Joins   []string          `yaml:"joins"`
}
