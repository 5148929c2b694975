package routes

import (
	"github.com/gin-gonic/gin"

	"cemetery_api/internal/controllers"
	"cemetery_api/internal/models"
	"cemetery_api/internal/policy"
	"cemetery_api/internal/serializers"
)

// AccountRoutes mounts credential management. The policy requires staff for
// every action on accounts, reads included.
func AccountRoutes(api *gin.RouterGroup, d Deps) {
	resource(api, "/accounts/", &controllers.RecordController[models.Account, serializers.AccountWrite, serializers.AccountRead]{
		Entity: policy.Accounts, Repo: d.Stores.Accounts, Mapper: serializers.Accounts, Events: d.Events,
		ID: func(a *models.Account) uint { return a.ID },
	})
}
