package schemas

import "google.golang.org/genai"

// GeminiSchema renders the analysis definition as a response schema for
// structured generation.
func GeminiSchema() *genai.Schema {
	return toGemini(Analysis())
}

func toGemini(n *Node) *genai.Schema {
	s := &genai.Schema{
		Description: n.Description,
		Minimum:     n.Minimum,
		Maximum:     n.Maximum,
	}
	if n.Nullable {
		s.Nullable = genai.Ptr(true)
	}

	switch n.Kind {
	case KindObject:
		s.Type = genai.TypeObject
		s.Properties = make(map[string]*genai.Schema, len(n.Properties))
		for _, p := range n.Properties {
			s.Properties[p.Name] = toGemini(p.Node)
			s.Required = append(s.Required, p.Name)
			s.PropertyOrdering = append(s.PropertyOrdering, p.Name)
		}
	case KindArray:
		s.Type = genai.TypeArray
		s.Items = toGemini(n.Items)
	case KindString:
		s.Type = genai.TypeString
	case KindInteger:
		s.Type = genai.TypeInteger
	}

	return s
}

// JSONSchema renders the analysis definition as a draft-07 JSON Schema document.
func JSONSchema() map[string]any {
	doc := toJSONSchema(Analysis())
	doc["$schema"] = "http://json-schema.org/draft-07/schema#"
	doc["title"] = "ResumeAnalysisResult"
	return doc
}

func toJSONSchema(n *Node) map[string]any {
	s := map[string]any{}
	if n.Description != "" {
		s["description"] = n.Description
	}

	var typ string
	switch n.Kind {
	case KindObject:
		typ = "object"
		props := make(map[string]any, len(n.Properties))
		required := make([]any, 0, len(n.Properties))
		for _, p := range n.Properties {
			props[p.Name] = toJSONSchema(p.Node)
			required = append(required, p.Name)
		}
		s["properties"] = props
		s["required"] = required
	case KindArray:
		typ = "array"
		s["items"] = toJSONSchema(n.Items)
	case KindString:
		typ = "string"
	case KindInteger:
		typ = "integer"
	}

	if n.Nullable {
		s["type"] = []any{typ, "null"}
	} else {
		s["type"] = typ
	}
	if n.Minimum != nil {
		s["minimum"] = *n.Minimum
	}
	if n.Maximum != nil {
		s["maximum"] = *n.Maximum
	}

	return s
}
