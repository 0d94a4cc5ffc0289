package mocks

import (
	"context"
	"fmt"
	"sync"

	"tablekeeper/core/cluster"
	"tablekeeper/core/schema"
)

// Catalog is a programmable in-memory table catalog implementing
// cluster.AdminClient. Unlike the call-expectation mock it keeps real
// state: created tables persist, disabled tables must be enabled again,
// and mutations are applied to the stored descriptors. That makes it
// suitable for idempotence and recovery tests that run the engine more
// than once against the same cluster.
type Catalog struct {
	mu       sync.Mutex
	tables   map[string]cluster.TableDescriptor
	disabled map[string]bool

	// Calls records every admin operation in order, formatted as
	// "op table" or "op table family".
	Calls []string

	// FailNext maps an operation name (list, create, disable, enable,
	// add, modify, delete) to an error returned by its next invocation.
	// The entry is consumed on use.
	FailNext map[string]error

	// ListCount counts remote catalog scans, for cache assertions.
	ListCount int
}

// NewCatalog builds an empty in-memory catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		tables:   make(map[string]cluster.TableDescriptor),
		disabled: make(map[string]bool),
		FailNext: make(map[string]error),
	}
}

// Seed inserts a table descriptor directly, bypassing call recording.
func (c *Catalog) Seed(name string, families ...schema.ColumnFamilySpec) {
	c.mu.Lock()
	defer c.mu.Unlock()
	desc := cluster.TableDescriptor{Name: name, Families: make(map[string]schema.ColumnFamilySpec, len(families))}
	for _, f := range families {
		desc.Families[f.Name] = f
	}
	c.tables[name] = desc
}

// Disabled reports whether the named table is currently offline.
func (c *Catalog) Disabled(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disabled[name]
}

// Table returns a copy of the stored descriptor.
func (c *Catalog) Table(name string) (cluster.TableDescriptor, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	desc, ok := c.tables[name]
	return copyDescriptor(desc), ok
}

func (c *Catalog) fail(op string) error {
	if err, ok := c.FailNext[op]; ok {
		delete(c.FailNext, op)
		return err
	}
	return nil
}

func (c *Catalog) ListTables(ctx context.Context) ([]cluster.TableDescriptor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls = append(c.Calls, "list")
	c.ListCount++
	if err := c.fail("list"); err != nil {
		return nil, &cluster.CommError{Op: "list", Err: err}
	}
	out := make([]cluster.TableDescriptor, 0, len(c.tables))
	for _, desc := range c.tables {
		out = append(out, copyDescriptor(desc))
	}
	return out, nil
}

func (c *Catalog) CreateTable(ctx context.Context, desc cluster.TableDescriptor) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls = append(c.Calls, "create "+desc.Name)
	if err := c.fail("create"); err != nil {
		return &cluster.CommError{Op: "create", Table: desc.Name, Err: err}
	}
	if _, exists := c.tables[desc.Name]; exists {
		return &cluster.CommError{Op: "create", Table: desc.Name, Err: fmt.Errorf("table already exists")}
	}
	c.tables[desc.Name] = copyDescriptor(desc)
	return nil
}

func (c *Catalog) DisableTable(ctx context.Context, table string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls = append(c.Calls, "disable "+table)
	if err := c.fail("disable"); err != nil {
		return &cluster.CommError{Op: "disable", Table: table, Err: err}
	}
	if _, exists := c.tables[table]; !exists {
		return &cluster.CommError{Op: "disable", Table: table, Err: fmt.Errorf("table not found")}
	}
	c.disabled[table] = true
	return nil
}

func (c *Catalog) EnableTable(ctx context.Context, table string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls = append(c.Calls, "enable "+table)
	if err := c.fail("enable"); err != nil {
		return &cluster.CommError{Op: "enable", Table: table, Err: err}
	}
	if _, exists := c.tables[table]; !exists {
		return &cluster.CommError{Op: "enable", Table: table, Err: fmt.Errorf("table not found")}
	}
	delete(c.disabled, table)
	return nil
}

func (c *Catalog) AddColumnFamily(ctx context.Context, table string, spec schema.ColumnFamilySpec) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls = append(c.Calls, fmt.Sprintf("add %s %s", table, spec.Name))
	if err := c.fail("add"); err != nil {
		return &cluster.CommError{Op: "add", Table: table, Err: err}
	}
	desc, exists := c.tables[table]
	if !exists {
		return &cluster.CommError{Op: "add", Table: table, Err: fmt.Errorf("table not found")}
	}
	desc.Families[spec.Name] = spec
	return nil
}

func (c *Catalog) ModifyColumnFamily(ctx context.Context, table string, spec schema.ColumnFamilySpec) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls = append(c.Calls, fmt.Sprintf("modify %s %s", table, spec.Name))
	if err := c.fail("modify"); err != nil {
		return &cluster.CommError{Op: "modify", Table: table, Err: err}
	}
	desc, exists := c.tables[table]
	if !exists {
		return &cluster.CommError{Op: "modify", Table: table, Err: fmt.Errorf("table not found")}
	}
	if _, ok := desc.Families[spec.Name]; !ok {
		return &cluster.CommError{Op: "modify", Table: table, Err: fmt.Errorf("family %s not found", spec.Name)}
	}
	desc.Families[spec.Name] = spec
	return nil
}

func (c *Catalog) DeleteColumnFamily(ctx context.Context, table, family string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls = append(c.Calls, fmt.Sprintf("delete %s %s", table, family))
	if err := c.fail("delete"); err != nil {
		return &cluster.CommError{Op: "delete", Table: table, Err: err}
	}
	desc, exists := c.tables[table]
	if !exists {
		return &cluster.CommError{Op: "delete", Table: table, Err: fmt.Errorf("table not found")}
	}
	if _, ok := desc.Families[family]; !ok {
		return &cluster.CommError{Op: "delete", Table: table, Err: fmt.Errorf("family %s not found", family)}
	}
	delete(desc.Families, family)
	return nil
}

func copyDescriptor(desc cluster.TableDescriptor) cluster.TableDescriptor {
	out := cluster.TableDescriptor{Name: desc.Name, Families: make(map[string]schema.ColumnFamilySpec, len(desc.Families))}
	for name, spec := range desc.Families {
		out.Families[name] = spec
	}
	return out
}
