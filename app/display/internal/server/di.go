package server

import (
	"github.com/google/wire"

	"github.com/iWorld-y/editorial_lens/app/display/internal/data"
	"github.com/iWorld-y/editorial_lens/app/display/internal/service"
	"github.com/iWorld-y/editorial_lens/app/display/internal/usecase"
)

// ProviderSet 是展示服务的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,
	NewAnalysisGateway,

	// Data providers
	data.NewData,
	data.NewKeyGate,

	// UseCase providers
	usecase.NewSessionUseCase,

	// Service providers
	service.NewDisplayService,
)
