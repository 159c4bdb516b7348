package client

// ODataQuery holds the OData system query options accepted by WATS list
// endpoints such as report headers and assets.
type ODataQuery struct {
	Filter  string `schema:"$filter,omitempty"`
	Top     int    `schema:"$top,omitempty"`
	Skip    int    `schema:"$skip,omitempty"`
	OrderBy string `schema:"$orderby,omitempty"`
	Select  string `schema:"$select,omitempty"`
	Expand  string `schema:"$expand,omitempty"`
}
