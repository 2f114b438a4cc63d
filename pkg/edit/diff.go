package edit

// Between returns the smallest single edit that turns old into updated:
// the bytes between their common prefix and common suffix. Identical
// buffers give an empty edit at offset zero.
func Between(old, updated []byte) Edit {
	limit := min(len(old), len(updated))

	prefix := 0
	for prefix < limit && old[prefix] == updated[prefix] {
		prefix++
	}
	if prefix == len(old) && prefix == len(updated) {
		return Edit{}
	}

	suffix := 0
	for suffix < limit-prefix && old[len(old)-1-suffix] == updated[len(updated)-1-suffix] {
		suffix++
	}

	return Edit{
		Offset:   prefix,
		Removed:  len(old) - prefix - suffix,
		Inserted: string(updated[prefix : len(updated)-suffix]),
	}
}
