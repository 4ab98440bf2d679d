package utils

import (
	"strconv"

	"github.com/yuwenzhijiao/showcase/internal/domain/resource"
)

func BuildResourceListCacheKey(filter resource.ListFilter) string {
	t := ""
	if filter.Type != nil {
		t = string(*filter.Type)
	}

	after := ""
	if filter.After != nil {
		after = strconv.FormatInt(filter.After.CreatedAt, 10) + "/" + filter.After.ID
	}

	return "resources:list:v1:limit=" + strconv.Itoa(filter.Limit) +
		":type=" + t +
		":after=" + after
}
