package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/admissions-crm-api/internal/middleware"
	"github.com/noah-isme/admissions-crm-api/internal/models"
	"github.com/noah-isme/admissions-crm-api/internal/service"
	appErrors "github.com/noah-isme/admissions-crm-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.Claims(c)
}

func requestMeta(c *gin.Context) service.RequestMeta {
	return service.RequestMeta{IP: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")}
}

func coverageParams(c *gin.Context) service.CoverageParams {
	return service.CoverageParams{
		From:         c.Query("from"),
		To:           c.Query("to"),
		Campaign:     c.Query("campaign"),
		AcademicYear: c.Query("academic_year"),
		CourseYear:   c.Query("course_year"),
	}
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if size > 500 {
		size = 500
	}
	return page, size
}

// optionalBool reads true/false/1/0 and ignores anything else.
func optionalBool(c *gin.Context, key string) *bool {
	raw := strings.ToLower(strings.TrimSpace(c.Query(key)))
	var value bool
	switch raw {
	case "true", "1":
		value = true
	case "false", "0":
		value = false
	default:
		return nil
	}
	return &value
}

func optionalCourseYear(c *gin.Context) (*int, error) {
	raw := strings.TrimSpace(c.Query("course_year"))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCourseYear, "course_year must be an integer.")
	}
	return &value, nil
}
