package admin

import (
	"net/http"

	"github.com/MonkyMars/gecho"
)

// PurgeCache drops every cached catalog entry
func (ar *AdminRoutesManager) PurgeCache(w http.ResponseWriter, r *http.Request) {
	if err := ar.cacheService.InvalidateCatalog(r.Context()); err != nil {
		ar.logger.Error("Failed to purge catalog cache", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.cache.clearFailed"),
			gecho.Send(),
		)
		return
	}

	ar.logger.Info("Catalog cache purged")
	gecho.Success(w,
		gecho.WithMessage("success.cache.cleared"),
		gecho.Send(),
	)
}
