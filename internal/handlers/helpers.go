package handlers

import (
	"fmt"
	"strconv"

	"mferp/internal/middleware"

	"github.com/gin-gonic/gin"
)

// resolveCompanyID 解析请求作用的单位
// 普通用户固定为所属单位；超级管理员可用company_id参数指定
func resolveCompanyID(c *gin.Context) (uint, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return 0, fmt.Errorf("请先登录")
	}

	if user.IsSuperAdmin() {
		idStr := c.Query("company_id")
		if idStr == "" {
			idStr = c.Param("company_id")
		}
		if idStr == "" {
			return 0, fmt.Errorf("超级管理员必须指定单位ID")
		}
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("单位ID格式错误")
		}
		return uint(id), nil
	}

	if user.CompanyID == nil {
		return 0, fmt.Errorf("当前账号未挂靠单位")
	}
	return *user.CompanyID, nil
}

// parseIDParam 解析路径中的:id
func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("ID格式错误")
	}
	return uint(id), nil
}
