package utils

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"fitness-portal/pkg/types"
)

const (
	DefaultLimit = 20
	MaxLimit     = 200
	// MaxPage не дает (page-1)*limit переполниться.
	MaxPage = math.MaxInt32 / MaxLimit
)

// ParseFilterFromQuery читает search, page и per_page (или limit).
func ParseFilterFromQuery(values url.Values) types.Filter {
	filterReq := types.Filter{
		Limit: DefaultLimit,
		Page:  1,
	}

	limitStr := values.Get("per_page")
	if limitStr == "" {
		limitStr = values.Get("limit")
	}
	if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
		if l > MaxLimit {
			filterReq.Limit = MaxLimit
		} else {
			filterReq.Limit = l
		}
	}

	if p, err := strconv.Atoi(values.Get("page")); err == nil && p > 0 {
		filterReq.Page = min(p, MaxPage)
	}
	filterReq.Offset = (filterReq.Page - 1) * filterReq.Limit
	filterReq.Search = strings.TrimSpace(values.Get("search"))

	return filterReq
}

// WantsJSON - запрос к JSON API (а не к HTML-странице).
func WantsJSON(ctx echo.Context) bool {
	req := ctx.Request()
	if strings.HasPrefix(req.URL.Path, "/api/") {
		return true
	}
	accept := req.Header.Get(echo.HeaderAccept)
	return strings.Contains(accept, echo.MIMEApplicationJSON) && !strings.Contains(accept, echo.MIMETextHTML)
}
