package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadYAML reads a YAML form. The document maps table names to either a
// list of row mappings or a list of records whose first entry is the header:
//
//	survey:
//	  - type: text
//	    name: comment
//	    label: Comment
//	choices:
//	  - [list_name, name, label]
//	  - [yes_no, yes, "Yes"]
func LoadYAML(filename string) (*Book, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading form file: %w", err)
	}
	return ParseYAML(filename, data)
}

// ParseYAML decodes a YAML form held in memory.
func ParseYAML(name string, data []byte) (*Book, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshalling YAML: %w", err)
	}
	b := newBook(name)
	if len(doc.Content) == 0 {
		return b, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s: line %d: expected a mapping of tables", name, root.Line)
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		records, err := yamlRecords(val)
		if err != nil {
			return nil, fmt.Errorf("%s: table %s: %w", name, key.Value, err)
		}
		b.add(key.Value, records)
	}
	return b, nil
}

func yamlRecords(n *yaml.Node) ([][]string, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected a list of rows", n.Line)
	}
	if len(n.Content) == 0 {
		return nil, nil
	}
	if n.Content[0].Kind == yaml.SequenceNode {
		return yamlLists(n.Content)
	}
	return yamlMappings(n.Content)
}

func yamlLists(rows []*yaml.Node) ([][]string, error) {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		if row.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("line %d: expected a list of cells", row.Line)
		}
		rec := make([]string, len(row.Content))
		for i, cell := range row.Content {
			v, err := scalar(cell)
			if err != nil {
				return nil, err
			}
			rec[i] = v
		}
		records = append(records, rec)
	}
	return records, nil
}

// yamlMappings builds the header from keys in first-appearance order.
func yamlMappings(rows []*yaml.Node) ([][]string, error) {
	var header []string
	pos := map[string]int{}
	cells := make([]map[int]string, 0, len(rows))
	for _, row := range rows {
		if row.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("line %d: expected a mapping of columns", row.Line)
		}
		rec := map[int]string{}
		for i := 0; i+1 < len(row.Content); i += 2 {
			col := row.Content[i].Value
			p, ok := pos[col]
			if !ok {
				p = len(header)
				pos[col] = p
				header = append(header, col)
			}
			v, err := scalar(row.Content[i+1])
			if err != nil {
				return nil, err
			}
			rec[p] = v
		}
		cells = append(cells, rec)
	}

	records := make([][]string, 0, len(rows)+1)
	records = append(records, header)
	for _, rec := range cells {
		out := make([]string, len(header))
		for p, v := range rec {
			out[p] = v
		}
		records = append(records, out)
	}
	return records, nil
}

func scalar(n *yaml.Node) (string, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return "", nil
		}
		return n.Value, nil
	case yaml.AliasNode:
		return scalar(n.Alias)
	default:
		return "", fmt.Errorf("line %d: cell must be a scalar", n.Line)
	}
}
