// Package mocks contains mock implementations of interfaces used in the SkyLoad project.
// This file is not used for anything except generating mocks - it shouldn't be imported.
// Execute `go generate ./internal/mocks/generate.go` to regenerate all mocks.
package mocks

//go:generate go tool mockgen -destination=mock_database.go -package=mocks github.com/dynoinc/skyload/internal/database Querier
//go:generate go tool mockgen -destination=mock_bulk.go -package=mocks github.com/dynoinc/skyload/internal/bulk TableLocker,DirReserver,Arbitrator,Servers,TableStates
