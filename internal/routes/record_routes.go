package routes

import (
	"github.com/gin-gonic/gin"

	"cemetery_api/internal/controllers"
	"cemetery_api/internal/middleware"
	"cemetery_api/internal/models"
	"cemetery_api/internal/policy"
	"cemetery_api/internal/serializers"
)

func RecordRoutes(api *gin.RouterGroup, d Deps) {
	resource(api, "/users/", &controllers.RecordController[models.User, serializers.UserWrite, serializers.UserRead]{
		Entity: policy.Users, Repo: d.Stores.Users, Mapper: serializers.Users, Events: d.Events,
		ID: func(u *models.User) uint { return u.ID },
	})
	resource(api, "/plots/", &controllers.RecordController[models.Plot, serializers.PlotWrite, serializers.PlotRead]{
		Entity: policy.Plots, Repo: d.Stores.Plots, Mapper: serializers.Plots, Events: d.Events,
		ID: func(p *models.Plot) uint { return p.ID },
	})
	resource(api, "/reservations/", &controllers.RecordController[models.Reservation, serializers.ReservationWrite, serializers.ReservationRead]{
		Entity: policy.Reservations, Repo: d.Stores.Reservations, Mapper: serializers.Reservations, Events: d.Events,
		ID: func(r *models.Reservation) uint { return r.ID },
	})
	resource(api, "/payments/", &controllers.RecordController[models.Payment, serializers.PaymentWrite, serializers.PaymentRead]{
		Entity: policy.Payments, Repo: d.Stores.Payments, Mapper: serializers.Payments, Events: d.Events,
		ID: func(p *models.Payment) uint { return p.ID },
	})
	resource(api, "/deceased/", &controllers.RecordController[models.Deceased, serializers.DeceasedWrite, serializers.DeceasedRead]{
		Entity: policy.DeceasedRecs, Repo: d.Stores.Deceased, Mapper: serializers.Deceased, Events: d.Events,
		ID: func(dc *models.Deceased) uint { return dc.ID },
	})
}

// resource mounts the collection and item routes of one entity under path,
// each guarded by the policy for its action.
func resource[M, W, R any](g *gin.RouterGroup, path string, rc *controllers.RecordController[M, W, R]) {
	item := path + ":id/"
	read := middleware.Authorize(rc.Entity, policy.Read)
	write := middleware.Authorize(rc.Entity, policy.Write)

	g.GET(path, read, rc.List)
	g.POST(path, write, rc.Create)
	g.GET(item, read, rc.Retrieve)
	g.PUT(item, write, rc.Update)
	g.PATCH(item, write, rc.Update)
	g.DELETE(item, middleware.Authorize(rc.Entity, policy.Delete), rc.Destroy)
}
