package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// pageETag hashes the items together with the next cursor, so two pages that
// serialize the same but continue differently never share a validator.
func pageETag(page resourcePage) (string, error) {
	sum := sha256.New()

	if err := json.NewEncoder(sum).Encode(page.Items); err != nil {
		return "", err
	}
	sum.Write([]byte(page.NextCursor))

	return `"` + hex.EncodeToString(sum.Sum(nil)[:16]) + `"`, nil
}

// respondResourcePage writes a list page. X-Next-Cursor is sent on 304 too,
// otherwise a revalidating client would lose its place.
func respondResourcePage(ctx *gin.Context, page resourcePage) {
	if page.NextCursor != "" {
		ctx.Header(NextCursorHeader, page.NextCursor)
	}

	if page.ETag == "" {
		ctx.JSON(http.StatusOK, page.Items)
		return
	}

	ctx.Header("ETag", page.ETag)
	ctx.Header("Cache-Control", "no-cache")

	if etagMatches(ctx.GetHeader("If-None-Match"), page.ETag) {
		ctx.Status(http.StatusNotModified)
		return
	}

	ctx.JSON(http.StatusOK, page.Items)
}

// etagMatches applies the weak comparison If-None-Match asks for.
func etagMatches(ifNoneMatch, etag string) bool {
	ifNoneMatch = strings.TrimSpace(ifNoneMatch)

	switch ifNoneMatch {
	case "":
		return false
	case "*":
		return true
	}

	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == etag {
			return true
		}
	}
	return false
}
