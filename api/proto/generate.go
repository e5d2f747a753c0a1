// Package proto holds the service definitions. Stubs are generated
// into task/v1/generated, mirroring the ent codegen layout.
package proto

//go:generate protoc --proto_path=. --go_out=module=github.com/labflow/labflow/api/proto:. --go-grpc_out=module=github.com/labflow/labflow/api/proto:. task/v1/task.proto
