package main

import (
	"fmt"

	"mferp/internal/database"
	"mferp/internal/models"
	"mferp/internal/permissions"
	"mferp/pkg/config"
	"mferp/pkg/logger"

	"gorm.io/gorm"
)

// seedData 初始化种子数据
func seedData(cfg *config.Config) error {
	appLogger := logger.GetLogger()
	appLogger.Info("Starting seed data initialization...")

	db := database.GetDB()

	// 1. 创建默认公司
	if err := createDefaultCompany(db); err != nil {
		return fmt.Errorf("创建默认公司失败: %v", err)
	}

	// 2. 创建初始超级管理员
	if err := createDefaultAdmin(db, cfg); err != nil {
		return fmt.Errorf("创建超级管理员失败: %v", err)
	}

	appLogger.Info("Seed data initialization completed successfully")
	return nil
}

// createDefaultCompany 创建默认公司
func createDefaultCompany(db *gorm.DB) error {
	var count int64
	db.Model(&models.Company{}).Where("code = ?", "default").Count(&count)
	if count > 0 {
		logger.GetLogger().Info("默认公司已存在，跳过创建")
		return nil
	}

	company := &models.Company{
		Name:   "默认公司",
		Code:   "default",
		Status: models.CompanyStatusActive,
	}

	if err := db.Create(company).Error; err != nil {
		return err
	}

	logger.GetLogger().Info("默认公司创建成功")
	return nil
}

// createDefaultAdmin 创建初始超级管理员
// 超级管理员不隶属任何公司，矩阵留空（角色旁路不读矩阵）
func createDefaultAdmin(db *gorm.DB, cfg *config.Config) error {
	var count int64
	db.Model(&models.User{}).Where("username = ?", cfg.Seed.AdminUsername).Count(&count)
	if count > 0 {
		logger.GetLogger().Info("超级管理员已存在，跳过创建")
		return nil
	}

	user := &models.User{
		Username: cfg.Seed.AdminUsername,
		Email:    cfg.Seed.AdminEmail,
		Name:     "系统管理员",
		Role:     permissions.RoleSuperAdmin,
		IsActive: true,
	}
	user.SetMatrix(permissions.DefaultMatrix(permissions.RoleSuperAdmin))

	if err := user.SetPassword(cfg.Seed.AdminPassword); err != nil {
		return fmt.Errorf("设置密码失败: %v", err)
	}

	if err := db.Create(user).Error; err != nil {
		return err
	}

	logger.GetLogger().Infof("超级管理员创建成功 - 用户名: %s", cfg.Seed.AdminUsername)
	return nil
}
