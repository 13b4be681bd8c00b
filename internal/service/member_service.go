package service

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/config"
	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/cache"
	"github.com/qs3c/gym_go_server/internal/pkg/oss"
	"github.com/qs3c/gym_go_server/internal/repository"
)

var (
	ErrMemberNotFound   = errors.New("member not found")
	ErrEmailExists      = errors.New("email already registered")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidDate      = errors.New("invalid date, want YYYY-MM-DD")
	ErrInvalidDateRange = errors.New("start date must not be after end date")
)

const dateLayout = "2006-01-02"

type MemberService struct {
	userRepo   *repository.UserRepository
	ossClient  *oss.Client
	statsCache *cache.DashboardCache
	cfg        *config.Config
}

func NewMemberService(
	userRepo *repository.UserRepository,
	ossClient *oss.Client,
	statsCache *cache.DashboardCache,
	cfg *config.Config,
) *MemberService {
	return &MemberService{
		userRepo:   userRepo,
		ossClient:  ossClient,
		statsCache: statsCache,
		cfg:        cfg,
	}
}

// List 列出全部会员（不含凭据字段，不含管理员）
func (s *MemberService) List() ([]*dto.AccountInfo, error) {
	users, err := s.userRepo.ListMembers()
	if err != nil {
		return nil, err
	}

	infos := make([]*dto.AccountInfo, 0, len(users))
	for i := range users {
		infos = append(infos, buildAccountInfo(&users[i]))
	}
	return infos, nil
}

// Get 查询单个账户：管理员可查任意账户，会员仅可查本人
func (s *MemberService) Get(id, requesterID int64, requesterRole string) (*dto.AccountInfo, error) {
	if requesterRole != model.RoleAdmin && requesterID != id {
		return nil, ErrPermissionDenied
	}

	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	return buildAccountInfo(user), nil
}

// Create 创建会员。新会员使用配置中的共用初始密码。
// TODO: 用一次性随机凭据 + 首次登录重置流程替换共用初始密码
func (s *MemberService) Create(ctx context.Context, req *dto.CreateMemberRequest) (*dto.AccountInfo, error) {
	exists, err := s.userRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, ErrInvalidDateRange
	}

	defaultPassword := s.cfg.Defaults.MemberPassword
	if defaultPassword == "" {
		defaultPassword = "fitness123"
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	membership := req.MembershipType
	user := &model.User{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		PasswordHash:   string(hashed),
		Role:           model.RoleMember,
		MembershipType: &membership,
		StartDate:      &start,
		EndDate:        &end,
		Status:         model.StatusActive,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx)

	return buildAccountInfo(user), nil
}

// Update 按字段掩码更新会员：仅请求中出现的字段被修改
func (s *MemberService) Update(ctx context.Context, id int64, req *dto.UpdateMemberRequest) (*dto.AccountInfo, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	fields := map[string]interface{}{}

	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Email != nil && *req.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(*req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrEmailExists
		}
		fields["email"] = *req.Email
	}
	if req.MembershipType != nil {
		fields["membership_type"] = *req.MembershipType
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}

	// 起止日期单独校验：以补丁后的组合值判断区间合法性
	effectiveStart, effectiveEnd := user.StartDate, user.EndDate
	if req.StartDate != nil {
		start, err := parseDate(*req.StartDate)
		if err != nil {
			return nil, err
		}
		fields["start_date"] = start
		effectiveStart = &start
	}
	if req.EndDate != nil {
		end, err := parseDate(*req.EndDate)
		if err != nil {
			return nil, err
		}
		fields["end_date"] = end
		effectiveEnd = &end
	}
	if effectiveStart != nil && effectiveEnd != nil && effectiveStart.After(*effectiveEnd) {
		return nil, ErrInvalidDateRange
	}

	if len(fields) > 0 {
		fields["version"] = gorm.Expr("version + 1")
		if err := s.userRepo.UpdateFields(id, fields); err != nil {
			return nil, err
		}
	}

	s.invalidateStats(ctx)

	updated, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return buildAccountInfo(updated), nil
}

// Delete 删除会员。重复删除视为错误而非幂等成功；
// 名下支付记录不级联删除，保留为审计痕迹。
func (s *MemberService) Delete(ctx context.Context, id int64) error {
	rows, err := s.userRepo.Delete(id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrMemberNotFound
	}

	s.invalidateStats(ctx)
	return nil
}

// UploadPhoto 上传会员照片到 OSS，替换时删除旧照片
func (s *MemberService) UploadPhoto(id, requesterID int64, requesterRole string, data []byte, ext string) (string, error) {
	if requesterRole != model.RoleAdmin && requesterID != id {
		return "", ErrPermissionDenied
	}
	if s.ossClient == nil {
		return "", errors.New("oss client not configured")
	}

	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrMemberNotFound
		}
		return "", err
	}

	photoURL, err := s.ossClient.UploadMemberPhoto(id, data, ext)
	if err != nil {
		return "", err
	}

	if user.PhotoURL != "" {
		if err := s.ossClient.Delete(s.ossClient.ExtractObjectKey(user.PhotoURL)); err != nil {
			log.Printf("failed to delete old photo for member %d: %v", id, err)
		}
	}

	if err := s.userRepo.UpdateFields(id, map[string]interface{}{"photo_url": photoURL}); err != nil {
		return "", err
	}

	return photoURL, nil
}

func (s *MemberService) invalidateStats(ctx context.Context) {
	if s.statsCache == nil {
		return
	}
	if err := s.statsCache.Invalidate(ctx); err != nil {
		log.Printf("failed to invalidate dashboard cache: %v", err)
	}
}

func buildAccountInfo(user *model.User) *dto.AccountInfo {
	info := &dto.AccountInfo{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      user.Role,
		Status:    user.Status,
		PhotoURL:  user.PhotoURL,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}

	if user.MembershipType != nil {
		info.MembershipType = *user.MembershipType
	}
	if user.StartDate != nil {
		info.StartDate = user.StartDate.Format(dateLayout)
	}
	if user.EndDate != nil {
		info.EndDate = user.EndDate.Format(dateLayout)
	}

	return info
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}
