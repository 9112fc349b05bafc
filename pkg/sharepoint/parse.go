// Package sharepoint (parse.go) maps verbose-OData JSON payloads into the
// typed records of models.go. Key renaming (PascalCase to snake_case) and
// property selection live here, away from any network code.
package sharepoint

import (
	"strconv"
	"time"
	"unicode"
)

// snakeCase converts a PascalCase property name to snake_case.
// "ListId" becomes "list_id", "SPWebUrl" becomes "sp_web_url".
func snakeCase(s string) string {
	runes := []rune(s)
	out := make([]rune, 0, len(runes)+4)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					out = append(out, '_')
				}
			}
			out = append(out, unicode.ToLower(r))
		} else {
			out = append(out, r)
		}
	}
	return string(out)
}

// parseSearchRows pivots each row's cell list into one record keyed by
// snake-cased property name.
func parseSearchRows(rows []searchRow) []SearchResult {
	results := make([]SearchResult, 0, len(rows))
	for _, row := range rows {
		record := make(SearchResult, len(row.Cells.Results))
		for _, cell := range row.Cells.Results {
			if cell.Key == "" {
				continue
			}
			record[snakeCase(cell.Key)] = cell.Value
		}
		results = append(results, record)
	}
	return results
}

// parseListItem flattens one list item entry into a ListItem record. The
// second return is false for entries that are not files (folders are
// excluded from list queries).
func parseListItem(entry map[string]any) (ListItem, bool) {
	if objectType, ok := entry["FileSystemObjectType"].(float64); ok && int(objectType) != ObjectTypeFile {
		return nil, false
	}

	item := make(ListItem, len(entry))
	for key, value := range entry {
		switch key {
		case "__metadata", "FileSystemObjectType":
			continue
		case "File":
			file, ok := value.(map[string]any)
			if !ok {
				continue
			}
			if s, ok := stringifyValue(file["Name"]); ok {
				item["name"] = s
			}
			if s, ok := stringifyValue(file["ServerRelativeUrl"]); ok {
				item["server_relative_url"] = s
			}
			if s, ok := stringifyValue(file["Length"]); ok {
				item["length"] = s
			}
		case "URL":
			if s, ok := linkURLValue(value); ok {
				item["url"] = s
			}
		default:
			if s, ok := stringifyValue(value); ok {
				item[snakeCase(key)] = s
			}
		}
	}
	return item, true
}

// linkURLValue extracts a link URL that may arrive either as a nested
// {Url: ...} structure or as a plain string.
func linkURLValue(value any) (string, bool) {
	switch v := value.(type) {
	case map[string]any:
		return stringifyValue(v["Url"])
	case string:
		if v == "" {
			return "", false
		}
		return v, true
	}
	return "", false
}

// stringifyValue renders a scalar JSON value as a string. Nested objects
// (deferred navigation properties and the like) and nulls are dropped.
func stringifyValue(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10), true
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}

// parseDocumentInfo selects the default property set plus the requested
// custom properties out of a ListItemAllFields payload.
func parseDocumentInfo(fields map[string]any, customProperties []string) *DocumentInfo {
	info := &DocumentInfo{
		Properties: make(map[string]string, len(customProperties)),
	}

	if s, ok := stringifyValue(fields["Title"]); ok {
		info.Title = s
	}
	if t, ok := timeValue(fields["Created"]); ok {
		info.CreatedAt = t
	}
	if t, ok := timeValue(fields["Modified"]); ok {
		info.UpdatedAt = t
	}
	if s, ok := linkURLValue(fields["URL"]); ok {
		info.URL = s
	}
	if meta, ok := fields["__metadata"].(map[string]any); ok {
		if s, ok := stringifyValue(meta["type"]); ok {
			info.EntityType = s
		}
	}

	for _, prop := range customProperties {
		if s, ok := stringifyValue(fields[prop]); ok {
			info.Properties[prop] = s
		}
	}
	return info
}

func timeValue(value any) (time.Time, bool) {
	s, ok := value.(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
