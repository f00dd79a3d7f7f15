//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=backend_test
package backend

import (
	"context"

	"google.golang.org/grpc"
)

// client реализуется *grpc.ClientConn, контракт в api/proto, вызовы идут через json-кодек.
type client interface {
	Invoke(ctx context.Context, method string, args any, reply any, opts ...grpc.CallOption) error
}

type retrier interface {
	ExecuteWithContext(ctx context.Context, fn func(context.Context) error) error
}
