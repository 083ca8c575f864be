package domain

import "strings"

// OwnerDirectory resolves owner display names from a fixed table of known
// owners, falling back to the local part of the owner identifier.
type OwnerDirectory struct {
	known map[string]string
}

func NewOwnerDirectory(known map[string]string) OwnerDirectory {
	table := make(map[string]string, len(known))
	for id, name := range known {
		id = strings.ToLower(strings.TrimSpace(id))
		name = strings.TrimSpace(name)
		if id == "" || name == "" {
			continue
		}
		table[id] = name
	}
	return OwnerDirectory{known: table}
}

// Name returns the display name for ownerID.
func (d OwnerDirectory) Name(ownerID string) string {
	ownerID = strings.TrimSpace(ownerID)
	if name, ok := d.known[strings.ToLower(ownerID)]; ok {
		return name
	}
	if at := strings.Index(ownerID, "@"); at >= 0 {
		return ownerID[:at]
	}
	return ownerID
}
