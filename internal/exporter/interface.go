package exporter

import (
	"apilens/internal/config"
	"apilens/internal/model"
)

// Exporter is the unified interface for all reporting strategies
type Exporter interface {
	Export(report *model.Report, cfg *config.Config) error
}
