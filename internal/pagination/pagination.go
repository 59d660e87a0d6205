// Package pagination resolves page/size style query parameters into
// offset/limit form and whitelists sort fields.
package pagination

// Defaults applied when the request leaves page or size empty.
const (
	DefaultPage = 1
	DefaultSize = 10
)

// Params is the resolved pagination request.
type Params struct {
	Page      int
	Size      int
	Offset    int
	SortField string
	Desc      bool
}

// Resolve clamps page and size, computes the offset and validates the sort
// field against the whitelist. An unrecognized sort field silently falls back
// to the default field in ascending order.
func Resolve(page, size int, sortField, order string, validFields []string, defaultField string) Params {
	if page < 1 {
		page = DefaultPage
	}

	if size < 1 {
		size = DefaultSize
	}

	valid := false

	for _, f := range validFields {
		if f == sortField {
			valid = true
			break
		}
	}

	desc := order == "desc"

	if !valid {
		sortField = defaultField
		desc = false
	}

	return Params{
		Page:      page,
		Size:      size,
		Offset:    (page - 1) * size,
		SortField: sortField,
		Desc:      desc,
	}
}
