package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/contentflow-backend/internal/pkg/errors"
	"github.com/yungbote/contentflow-backend/internal/platform/ctxutil"
)

func dbcOf(c *gin.Context) dbctx.Context {
	return dbctx.Context{Ctx: c.Request.Context()}
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", name, pkgerrors.ErrInvalidArgument)
	}
	return id, nil
}

func callerID(c *gin.Context) (uuid.UUID, error) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, pkgerrors.ErrUnauthorized
	}
	return rd.UserID, nil
}

func bindErr(err error) error {
	return fmt.Errorf("invalid request body: %v: %w", err, pkgerrors.ErrInvalidArgument)
}
