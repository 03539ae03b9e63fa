package model

import (
	"docindex/internal/docindex/mapping"
)

// ErrorResponse for consistent error handling
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (e *ErrorDetail) Error() string {
	return e.Message
}

// MappingView is the JSON view of a mapped entity type.
type MappingView struct {
	Name              string         `json:"name"`
	GoType            string         `json:"go_type"`
	IndexName         string         `json:"index_name"`
	IndexType         string         `json:"index_type"`
	IDAttribute       string         `json:"id_attribute,omitempty"`
	VersionAttribute  string         `json:"version_attribute,omitempty"`
	ParentIDAttribute string         `json:"parent_id_attribute,omitempty"`
	Properties        []PropertyView `json:"properties"`
}

type PropertyView struct {
	Name      string `json:"name"`
	FieldName string `json:"field_name"`
	Type      string `json:"type"`
}

// NewMappingView flattens the metadata of e.
func NewMappingView(e mapping.PersistentEntity) MappingView {
	v := MappingView{
		Name:       e.Name(),
		GoType:     e.Type().String(),
		IndexName:  e.IndexName(),
		IndexType:  e.IndexType(),
		Properties: []PropertyView{},
	}
	if p, ok := e.IDProperty(); ok {
		v.IDAttribute = p.FieldName
	}
	if p, ok := e.VersionProperty(); ok {
		v.VersionAttribute = p.FieldName
	}
	if p, ok := e.ParentIDProperty(); ok {
		v.ParentIDAttribute = p.FieldName
	}
	for _, p := range e.Properties() {
		v.Properties = append(v.Properties, PropertyView{
			Name:      p.Name,
			FieldName: p.FieldName,
			Type:      p.Type.String(),
		})
	}
	return v
}
