package mocks

import (
	"context"

	"tablekeeper/core/cluster"
	"tablekeeper/core/schema"

	"github.com/stretchr/testify/mock"
)

// AdminClient is a mock implementation of cluster.AdminClient
type AdminClient struct {
	mock.Mock
}

func (m *AdminClient) ListTables(ctx context.Context) ([]cluster.TableDescriptor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cluster.TableDescriptor), args.Error(1)
}

func (m *AdminClient) CreateTable(ctx context.Context, desc cluster.TableDescriptor) error {
	args := m.Called(ctx, desc)
	return args.Error(0)
}

func (m *AdminClient) DisableTable(ctx context.Context, table string) error {
	args := m.Called(ctx, table)
	return args.Error(0)
}

func (m *AdminClient) EnableTable(ctx context.Context, table string) error {
	args := m.Called(ctx, table)
	return args.Error(0)
}

func (m *AdminClient) AddColumnFamily(ctx context.Context, table string, spec schema.ColumnFamilySpec) error {
	args := m.Called(ctx, table, spec)
	return args.Error(0)
}

func (m *AdminClient) ModifyColumnFamily(ctx context.Context, table string, spec schema.ColumnFamilySpec) error {
	args := m.Called(ctx, table, spec)
	return args.Error(0)
}

func (m *AdminClient) DeleteColumnFamily(ctx context.Context, table, family string) error {
	args := m.Called(ctx, table, family)
	return args.Error(0)
}
