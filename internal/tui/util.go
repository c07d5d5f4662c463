package tui

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func shortUUID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
