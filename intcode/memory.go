package intcode

import (
	"maps"
	"slices"
)

const (
	PAGE_BITS = 10             // Address bits covered by a page.
	PAGE_SIZE = 1 << PAGE_BITS // Cells per page.
	PAGE_MASK = PAGE_SIZE - 1  // Mask of the in-page offset.
)

// Page is a fixed block of memory cells.
type Page [PAGE_SIZE]int64

// Memory is a sparse, paged store of cells. Pages are allocated on first
// write, and cells in missing pages read as zero.
//
// Addresses must be non-negative; the machine checks them before they get
// here.
type Memory struct {
	pages map[int64]*Page
}

// NewMemory creates a memory holding cells, starting at address 0.
func NewMemory(cells []int64) (mem *Memory) {
	mem = &Memory{}
	mem.Load(0, cells)
	return
}

// page returns the page holding address, allocating it if requested.
func (mem *Memory) page(address int64, alloc bool) *Page {
	index := address >> PAGE_BITS
	page, ok := mem.pages[index]
	if !ok && alloc {
		if mem.pages == nil {
			mem.pages = make(map[int64]*Page)
		}
		page = &Page{}
		mem.pages[index] = page
	}
	return page
}

// Read returns the cell at address.
func (mem *Memory) Read(address int64) int64 {
	page := mem.page(address, false)
	if page == nil {
		return 0
	}
	return page[address&PAGE_MASK]
}

// Write stores value at address.
func (mem *Memory) Write(address int64, value int64) {
	mem.page(address, true)[address&PAGE_MASK] = value
}

// Load copies cells into memory starting at address.
func (mem *Memory) Load(address int64, cells []int64) {
	for len(cells) > 0 {
		page := mem.page(address, true)
		n := copy(page[address&PAGE_MASK:], cells)
		cells = cells[n:]
		address += int64(n)
	}
}

// Slice returns count cells starting at address.
func (mem *Memory) Slice(address int64, count int) (cells []int64) {
	cells = make([]int64, count)
	for n := range cells {
		cells[n] = mem.Read(address + int64(n))
	}
	return
}

// Pages returns the number of allocated pages.
func (mem *Memory) Pages() int {
	return len(mem.pages)
}

// Indexes returns the allocated page indexes in ascending order.
func (mem *Memory) Indexes() []int64 {
	return slices.Sorted(maps.Keys(mem.pages))
}

// Clone returns an independent copy of the memory.
func (mem *Memory) Clone() (clone *Memory) {
	clone = &Memory{}
	if len(mem.pages) == 0 {
		return
	}

	clone.pages = make(map[int64]*Page, len(mem.pages))
	for index, page := range mem.pages {
		copied := *page
		clone.pages[index] = &copied
	}

	return
}

// Reset releases all pages.
func (mem *Memory) Reset() {
	clear(mem.pages)
}
