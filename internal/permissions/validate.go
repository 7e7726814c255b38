package permissions

import (
	"fmt"

	"mferp/pkg/errors"
)

// RawMatrix 管理端提交的原始矩阵（未经目录校验）
// 用map[string]bool承接操作层，JSON里的非布尔值在绑定阶段即报错
type RawMatrix map[string]map[string]map[string]bool

// Validate 校验提交的矩阵只引用目录中已知的模块/功能/操作名
// 任何未知键都返回指明该键的ValidationError，校验失败时不得应用任何变更
func Validate(raw RawMatrix) error {
	for moduleCode, features := range raw {
		mod, ok := FindModule(moduleCode)
		if !ok {
			return errors.NewValidationError(moduleCode, "未知的模块")
		}
		for featureCode, actions := range features {
			if !HasFeature(mod.Code, featureCode) {
				return errors.NewValidationError(
					fmt.Sprintf("%s.%s", moduleCode, featureCode), "未知的功能")
			}
			for action := range actions {
				if !ValidAction(action) {
					return errors.NewValidationError(
						fmt.Sprintf("%s.%s.%s", moduleCode, featureCode, action), "未知的操作")
				}
			}
		}
	}
	return nil
}

// FromRaw 将校验通过的原始矩阵转换为完整矩阵
// 未提交的键补为false，保证存储矩阵键完整
func FromRaw(raw RawMatrix) (Matrix, error) {
	if err := Validate(raw); err != nil {
		return nil, err
	}

	m := EmptyMatrix()
	for moduleCode, features := range raw {
		for featureCode, actions := range features {
			m[moduleCode][featureCode] = ActionSet{
				View:   actions[ActionView],
				Add:    actions[ActionAdd],
				Edit:   actions[ActionEdit],
				Delete: actions[ActionDelete],
			}
		}
	}
	return m, nil
}
