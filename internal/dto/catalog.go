package dto

import "github.com/janezhang99/SEW-v5-sub002/internal/core/domain"

// KindCatalogResponse lists the enumerations of one record kind.
type KindCatalogResponse struct {
	DefaultStatus string              `json:"defaultStatus"`
	Statuses      []string            `json:"statuses"`
	Categories    []string            `json:"categories"`
	Workflow      map[string][]string `json:"workflow,omitempty"`
}

// CatalogResponse is keyed by record kind.
type CatalogResponse map[string]KindCatalogResponse

// ToCatalogResponse converts the domain catalog to its response DTO.
func ToCatalogResponse(c domain.Catalog) CatalogResponse {
	res := make(CatalogResponse, len(c))
	for kind, kc := range c {
		entry := KindCatalogResponse{
			DefaultStatus: string(kc.DefaultStatus),
			Statuses:      kc.Statuses.Strings(),
			Categories:    append([]string{}, kc.Categories...),
		}
		if len(kc.Workflow) > 0 {
			entry.Workflow = make(map[string][]string, len(kc.Workflow))
			for from, to := range kc.Workflow {
				entry.Workflow[string(from)] = domain.StatusSet(to).Strings()
			}
		}
		res[string(kind)] = entry
	}
	return res
}
