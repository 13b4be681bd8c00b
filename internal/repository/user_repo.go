package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx 返回绑定到事务的仓库实例
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetByID(id int64) (*model.User, error) {
	var user model.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) ListMembers() ([]model.User, error) {
	var users []model.User
	err := r.db.Where("role = ?", model.RoleMember).
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

func (r *UserRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}

// ApplyMembership 以乐观锁条件更新会员的会籍字段。
// version 不匹配时不更新任何行，由返回的行数体现。
func (r *UserRepository) ApplyMembership(id, version int64, plan string, start, end time.Time) (int64, error) {
	result := r.db.Model(&model.User{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]interface{}{
			"membership_type": plan,
			"start_date":      start,
			"end_date":        end,
			"status":          model.StatusActive,
			"version":         gorm.Expr("version + 1"),
		})
	return result.RowsAffected, result.Error
}

// Delete 删除账户，返回受影响行数。会员名下的支付记录不级联删除（保留审计痕迹）。
func (r *UserRepository) Delete(id int64) (int64, error) {
	result := r.db.Delete(&model.User{}, id)
	return result.RowsAffected, result.Error
}

func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) CountMembers() (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("role = ?", model.RoleMember).Count(&count).Error
	return count, err
}

func (r *UserRepository) CountActiveMembers() (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).
		Where("role = ? AND status = ?", model.RoleMember, model.StatusActive).
		Count(&count).Error
	return count, err
}

// CountExpiringBefore 统计会籍在 deadline 之前到期的在册活跃会员
func (r *UserRepository) CountExpiringBefore(deadline time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).
		Where("role = ? AND status = ? AND end_date IS NOT NULL AND end_date <= ?",
			model.RoleMember, model.StatusActive, deadline).
		Count(&count).Error
	return count, err
}

// MarkExpiredInactive 将会籍已过期的活跃会员置为 inactive，返回处理行数
func (r *UserRepository) MarkExpiredInactive(now time.Time) (int64, error) {
	result := r.db.Model(&model.User{}).
		Where("role = ? AND status = ? AND end_date IS NOT NULL AND end_date < ?",
			model.RoleMember, model.StatusActive, now).
		Updates(map[string]interface{}{
			"status":  model.StatusInactive,
			"version": gorm.Expr("version + 1"),
		})
	return result.RowsAffected, result.Error
}
