package openapi

import (
	"fmt"
	"sort"
	"strings"
)

// Index holds parsed endpoint data for one API group.
type Index struct {
	Group     string
	Endpoints map[string]map[string]*EndpointDetail // path -> method -> detail
}

// Count returns the total number of endpoints.
func (idx *Index) Count() int {
	n := 0
	for _, methods := range idx.Endpoints {
		n += len(methods)
	}
	return n
}

// Tags returns the distinct tags in the index, sorted.
func (idx *Index) Tags() []string {
	seen := make(map[string]struct{})
	for _, methods := range idx.Endpoints {
		for _, d := range methods {
			for _, t := range d.Tags {
				seen[t] = struct{}{}
			}
		}
	}
	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// Filter returns endpoint summaries matching optional tag and method filters.
func (idx *Index) Filter(tag, method string) []EndpointSummary {
	var results []EndpointSummary
	method = strings.ToUpper(method)

	for _, methods := range idx.Endpoints {
		for m, detail := range methods {
			if method != "" && m != method {
				continue
			}
			if tag != "" && !hasTag(detail, tag) {
				continue
			}
			results = append(results, detail.summary())
		}
	}
	sortSummaries(results)
	return results
}

func hasTag(d *EndpointDetail, tag string) bool {
	for _, t := range d.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// GetDetail returns full details for a specific endpoint. path may also be
// a unique prefix or suffix of the documented path.
func (idx *Index) GetDetail(path, method string) (*EndpointDetail, error) {
	method = strings.ToUpper(method)
	methods, ok := idx.Endpoints[path]
	if !ok {
		var candidates []string
		for p := range idx.Endpoints {
			if strings.HasSuffix(p, path) || strings.HasPrefix(p, path) {
				candidates = append(candidates, p)
			}
		}
		switch len(candidates) {
		case 0:
			return nil, fmt.Errorf("endpoint %s not found", path)
		case 1:
			path = candidates[0]
			methods = idx.Endpoints[path]
		default:
			sort.Strings(candidates)
			return nil, fmt.Errorf("endpoint %s is ambiguous: %s", path, strings.Join(candidates, ", "))
		}
	}

	if detail, ok := methods[method]; ok {
		return detail, nil
	}
	if method == "" && len(methods) == 1 {
		for _, d := range methods {
			return d, nil
		}
	}
	return nil, fmt.Errorf("method %s not found for %s", method, path)
}

// Search searches across the index for matching endpoints.
func (idx *Index) Search(query string) []EndpointSummary {
	query = strings.ToLower(query)
	var results []EndpointSummary

	for path, methods := range idx.Endpoints {
		for _, detail := range methods {
			if matches(query, path, detail) {
				results = append(results, detail.summary())
			}
		}
	}
	sortSummaries(results)
	return results
}

func matches(query, path string, detail *EndpointDetail) bool {
	if strings.Contains(strings.ToLower(path), query) {
		return true
	}
	if strings.Contains(strings.ToLower(detail.Summary), query) {
		return true
	}
	if strings.Contains(strings.ToLower(detail.Description), query) {
		return true
	}
	if strings.Contains(strings.ToLower(detail.OperationID), query) {
		return true
	}
	for _, tag := range detail.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func sortSummaries(s []EndpointSummary) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Group != s[j].Group {
			return s[i].Group < s[j].Group
		}
		if s[i].Path != s[j].Path {
			return s[i].Path < s[j].Path
		}
		return s[i].Method < s[j].Method
	})
}
