package vulkan

// handles maps native Vulkan handles to small opaque ids. Id 0 is never
// issued, so the zero graphics handle stays invalid.
type handles[T comparable] struct {
	byID map[uintptr]T
	ids  map[T]uintptr
	next uintptr
}

func (h *handles[T]) put(v T) uintptr {
	if h.byID == nil {
		h.byID = make(map[uintptr]T)
		h.ids = make(map[T]uintptr)
	}
	if id, ok := h.ids[v]; ok {
		return id
	}
	h.next++
	h.byID[h.next] = v
	h.ids[v] = h.next
	return h.next
}

func (h *handles[T]) get(id uintptr) (T, bool) {
	v, ok := h.byID[id]
	return v, ok
}

func (h *handles[T]) drop(id uintptr) (T, bool) {
	v, ok := h.byID[id]
	if ok {
		delete(h.byID, id)
		delete(h.ids, v)
	}
	return v, ok
}

func (h *handles[T]) len() int { return len(h.byID) }

func (h *handles[T]) reset() {
	h.byID = nil
	h.ids = nil
}
