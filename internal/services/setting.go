package services

import (
	"errors"
	"fmt"

	"mferp/internal/database"
	"mferp/internal/models"

	"gorm.io/gorm"
)

type SettingService struct {
	db *gorm.DB
}

func NewSettingService() *SettingService {
	return &SettingService{
		db: database.GetDB(),
	}
}

// Get 读取单位级配置项
func (s *SettingService) Get(companyID uint, key string) (*models.Setting, error) {
	var setting models.Setting
	err := s.db.Where("company_id = ? AND key = ?", companyID, key).First(&setting).Error
	return &setting, err
}

// GetAll 读取单位全部配置项
func (s *SettingService) GetAll(companyID uint) ([]*models.Setting, error) {
	var settings []*models.Setting
	err := s.db.Where("company_id = ?", companyID).Order("key").Find(&settings).Error
	return settings, err
}

// Set 写入配置项（存在则更新）
func (s *SettingService) Set(companyID uint, key, value string, updatedBy uint) (*models.Setting, error) {
	if key == "" {
		return nil, fmt.Errorf("配置键不能为空")
	}

	var setting models.Setting
	err := s.db.Where("company_id = ? AND key = ?", companyID, key).First(&setting).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		setting = models.Setting{CompanyID: companyID, Key: key}
	}

	setting.Value = value
	setting.UpdatedBy = updatedBy

	err = s.db.Save(&setting).Error
	return &setting, err
}

// Delete 删除配置项
func (s *SettingService) Delete(companyID uint, key string) error {
	result := s.db.Where("company_id = ? AND key = ?", companyID, key).Delete(&models.Setting{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
