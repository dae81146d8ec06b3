package resume

import (
	"github.com/craftedcv/craftedcv/internal/resume/pdf"
	"github.com/craftedcv/craftedcv/internal/resume/repository"
	"github.com/craftedcv/craftedcv/internal/resume/service"
	"go.uber.org/fx"
)

var Module = fx.Module("resume.service",
	fx.Provide(pdf.NewRenderer),
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
