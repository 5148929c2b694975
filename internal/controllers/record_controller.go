package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"cemetery_api/internal/apperrors"
	"cemetery_api/internal/events"
	"cemetery_api/internal/metrics"
	"cemetery_api/internal/middleware"
	"cemetery_api/internal/policy"
	"cemetery_api/internal/serializers"
	"cemetery_api/internal/store"
)

// RecordController serves list, retrieve, create, update and destroy for
// one entity. Authorization runs in route middleware before these handlers.
type RecordController[M, W, R any] struct {
	Entity policy.Entity
	Repo   store.Repository[M]
	Mapper serializers.Mapper[M, W, R]
	Events events.Publisher
	// ID returns the primary key of a stored entity.
	ID func(m *M) uint
}

// List handles GET on the collection with optional search and ordering.
func (rc *RecordController[M, W, R]) List(c *gin.Context) {
	items, err := rc.Repo.List(c.Request.Context(), store.Query{
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
	})
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, rc.Mapper.ReadAll(items))
}

func (rc *RecordController[M, W, R]) Retrieve(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	m, err := rc.Repo.Get(c.Request.Context(), id)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, rc.Mapper.Read(m))
}

// Create stores a new entity and answers 201 with its reloaded read form.
func (rc *RecordController[M, W, R]) Create(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	m, err := rc.Mapper.Create(body)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	ctx := c.Request.Context()
	if err := rc.Repo.Create(ctx, m); err != nil {
		middleware.Abort(c, err)
		return
	}
	id := rc.ID(m)
	saved, err := rc.Repo.Get(ctx, id)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	rc.publish(c, events.Created, id)
	c.JSON(http.StatusCreated, rc.Mapper.Read(saved))
}

// Update handles PUT (full replacement) and PATCH (partial).
func (rc *RecordController[M, W, R]) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	m, err := rc.Repo.Get(ctx, id)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	body, err := c.GetRawData()
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	if c.Request.Method == http.MethodPatch {
		err = rc.Mapper.Patch(body, m)
	} else {
		err = rc.Mapper.Replace(body, m)
	}
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	if err := rc.Repo.Update(ctx, m); err != nil {
		middleware.Abort(c, err)
		return
	}
	saved, err := rc.Repo.Get(ctx, id)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	rc.publish(c, events.Updated, id)
	c.JSON(http.StatusOK, rc.Mapper.Read(saved))
}

func (rc *RecordController[M, W, R]) Destroy(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := rc.Repo.Delete(c.Request.Context(), id); err != nil {
		middleware.Abort(c, err)
		return
	}
	rc.publish(c, events.Deleted, id)
	c.Status(http.StatusNoContent)
}

// publish reports a committed write. Broker failures are logged only.
func (rc *RecordController[M, W, R]) publish(c *gin.Context, action string, id uint) {
	if rc.Events == nil {
		return
	}
	ev := events.Event{
		Entity:     string(rc.Entity),
		Action:     action,
		ID:         id,
		Actor:      middleware.CurrentPrincipal(c).Username,
		OccurredAt: time.Now().UTC(),
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), 2*time.Second)
	defer cancel()
	err := rc.Events.Publish(ctx, ev)
	metrics.RecordEvent(ev.Entity, err)
	if err != nil {
		logrus.WithError(err).WithField("routing_key", ev.RoutingKey()).Warn("change event not published")
	}
}

// pathID parses the :id segment. Anything but a positive integer is a 404.
func pathID(c *gin.Context) (uint, bool) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || n == 0 {
		middleware.Abort(c, apperrors.ErrNotFound)
		return 0, false
	}
	return uint(n), true
}
