package pricing

// Catalog resolves legacy id references in task selections
type Catalog interface {
	Process(id string) (*Process, bool)
	Material(id string) (*Material, bool)
}

// StaticCatalog is an in-memory Catalog built from lookup slices
type StaticCatalog struct {
	processes map[string]*Process
	materials map[string]*Material
}

// NewStaticCatalog indexes processes and materials by ID. Entries without
// an ID are ignored; for duplicate IDs the first entry wins.
func NewStaticCatalog(processes []Process, materials []Material) *StaticCatalog {
	c := &StaticCatalog{
		processes: make(map[string]*Process, len(processes)),
		materials: make(map[string]*Material, len(materials)),
	}
	for i := range processes {
		id := processes[i].ID
		if id == "" {
			continue
		}
		if _, exists := c.processes[id]; !exists {
			c.processes[id] = &processes[i]
		}
	}
	for i := range materials {
		id := materials[i].ID
		if id == "" {
			continue
		}
		if _, exists := c.materials[id]; !exists {
			c.materials[id] = &materials[i]
		}
	}
	return c
}

// Process looks up a process by ID
func (c *StaticCatalog) Process(id string) (*Process, bool) {
	if c == nil {
		return nil, false
	}
	p, ok := c.processes[id]
	return p, ok
}

// Material looks up a material by ID
func (c *StaticCatalog) Material(id string) (*Material, bool) {
	if c == nil {
		return nil, false
	}
	m, ok := c.materials[id]
	return m, ok
}

// Len returns the number of indexed processes and materials
func (c *StaticCatalog) Len() (processes, materials int) {
	if c == nil {
		return 0, 0
	}
	return len(c.processes), len(c.materials)
}
