//go:build tools
// +build tools

package tools

import (
	_ "github.com/golangci/golangci-lint/v2/cmd/golangci-lint"
	_ "github.com/google/wire/cmd/wire"
	_ "github.com/pressly/goose/v3/cmd/goose"
	_ "github.com/rakyll/hey"
	_ "github.com/wadey/gocovmerge"
	_ "github.com/yoheimuta/protolint/cmd/protolint"
	_ "go.uber.org/mock/gomock"
	_ "mvdan.cc/gofumpt"
)
