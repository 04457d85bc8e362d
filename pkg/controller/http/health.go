package http

import (
	"net/http"

	"github.com/m-mizutani/unidl/pkg/domain/model"
	"github.com/m-mizutani/unidl/pkg/domain/types"
	"github.com/m-mizutani/unidl/pkg/utils/i18n"
)

func healthHandler(bundle *i18n.Bundle) http.HandlerFunc {
	tags := bundle.Languages()
	langs := make([]string, 0, len(tags))
	for _, tag := range tags {
		langs = append(langs, tag.String())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, &model.HealthStatus{
			Status:    "healthy",
			Service:   types.ServiceName,
			Version:   types.Version,
			Languages: langs,
		}, http.StatusOK)
	}
}
