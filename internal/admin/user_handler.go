package admin

import (
	"errors"
	"strings"
	"time"

	"bakehouse-backend/internal/auth"
	"bakehouse-backend/internal/database"
	"bakehouse-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type listUsersResponse struct {
	Users []models.User `json:"users"`
	Total int64         `json:"total"`
}

// targetUser loads the target account and enforces that plain admins only act
// on "user" accounts; superadmins can act on anyone.
func targetUser(c *fiber.Ctx, id string) (*models.User, error) {
	var user models.User
	err := database.DB.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "User not found")
	}
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Could not load user")
	}

	role, _ := c.Locals(auth.CtxUserRoleKey).(models.UserRole)
	if role != models.RoleSuperAdmin && user.Role != models.RoleUser {
		return nil, fiber.NewError(fiber.StatusForbidden, "Only a superadmin can manage admin accounts")
	}
	return &user, nil
}

// GET /api/admin/users?search=&role=&sort=asc|desc&limit=&offset=
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 100)
		offset := c.QueryInt("offset", 0)
		if limit <= 0 || limit > 500 {
			limit = 100
		}
		if offset < 0 {
			offset = 0
		}

		query := database.DB.Model(&models.User{})

		if search := strings.TrimSpace(c.Query("search")); search != "" {
			query = query.Where("name ILIKE ?", "%"+search+"%")
		}
		if role := c.Query("role"); role != "" {
			query = query.Where("role = ?", role)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not count users")
		}

		order := "created_at DESC"
		if c.Query("sort") == "asc" {
			order = "created_at ASC"
		}

		var users []models.User
		if err := query.Order(order).Limit(limit).Offset(offset).Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list users")
		}

		return c.JSON(listUsersResponse{Users: users, Total: total})
	}
}

type updateUserRequest struct {
	Name          *string    `json:"name"`
	Email         *string    `json:"email"`
	EmailVerified *bool      `json:"email_verified"`
	BusinessName  *string    `json:"business_name"`
	Plan          *string    `json:"plan"`
	PlanExpiresAt *time.Time `json:"plan_expires_at"`
}

// PATCH /api/admin/users/:id — profile and plan fields only.
func UpdateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := targetUser(c, c.Params("id"))
		if err != nil {
			return err
		}

		var body updateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		fields := map[string]interface{}{}
		if body.Name != nil {
			fields["name"] = strings.TrimSpace(*body.Name)
		}
		if body.Email != nil {
			fields["email"] = strings.TrimSpace(strings.ToLower(*body.Email))
		}
		if body.EmailVerified != nil {
			fields["email_verified"] = *body.EmailVerified
		}
		if body.BusinessName != nil {
			fields["business_name"] = *body.BusinessName
		}
		if body.Plan != nil {
			fields["plan"] = *body.Plan
		}
		if body.PlanExpiresAt != nil {
			fields["plan_expires_at"] = *body.PlanExpiresAt
		}

		if len(fields) > 0 {
			if err := database.DB.Model(user).Updates(fields).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not update user")
			}
		}
		return c.JSON(user)
	}
}

type banUserRequest struct {
	Reason           string `json:"reason"`
	ExpiresInSeconds int64  `json:"expires_in_seconds"` // 0 = permanent
}

// POST /api/admin/users/:id/ban
func BanUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := targetUser(c, c.Params("id"))
		if err != nil {
			return err
		}

		actorID, _ := c.Locals(auth.CtxUserIDKey).(string)
		if actorID == user.ID {
			return fiber.NewError(fiber.StatusBadRequest, "You cannot ban yourself")
		}

		var body banUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		fields := map[string]interface{}{
			"banned":      true,
			"ban_reason":  body.Reason,
			"ban_expires": nil,
		}
		if body.ExpiresInSeconds > 0 {
			expires := time.Now().Add(time.Duration(body.ExpiresInSeconds) * time.Second)
			fields["ban_expires"] = expires
		}

		if err := database.DB.Model(user).Updates(fields).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not ban user")
		}
		return c.JSON(fiber.Map{"success": true})
	}
}

// POST /api/admin/users/:id/unban
func UnbanUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := targetUser(c, c.Params("id"))
		if err != nil {
			return err
		}

		err = database.DB.Model(user).Updates(map[string]interface{}{
			"banned":      false,
			"ban_reason":  "",
			"ban_expires": nil,
		}).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not unban user")
		}
		return c.JSON(fiber.Map{"success": true})
	}
}

// DELETE /api/admin/users/:id — removes the account and all tenant data.
func DeleteUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := targetUser(c, c.Params("id"))
		if err != nil {
			return err
		}

		actorID, _ := c.Locals(auth.CtxUserIDKey).(string)
		if actorID == user.ID {
			return fiber.NewError(fiber.StatusBadRequest, "You cannot delete yourself")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&models.ProductionLog{}, "user_id = ?", user.ID).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Recipe{}, "user_id = ?", user.ID).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.InventoryItem{}, "user_id = ?", user.ID).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.UserSettings{}, "user_id = ?", user.ID).Error; err != nil {
				return err
			}
			return tx.Delete(user).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete user")
		}
		return c.JSON(fiber.Map{"success": true})
	}
}

type createAdminRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/admin/admins — superadmin only.
func CreateAdminHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body createAdminRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if body.Name == "" || body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name, email and password are required")
		}

		var count int64
		database.DB.Model(&models.User{}).Where("email = ?", body.Email).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "An account with this email already exists")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		user := models.User{
			ID:            uuid.NewString(),
			Name:          body.Name,
			Email:         body.Email,
			EmailVerified: true,
			PasswordHash:  string(hash),
			Role:          models.RoleAdmin,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create admin")
		}

		return c.Status(fiber.StatusCreated).JSON(user)
	}
}

type setRoleRequest struct {
	Role models.UserRole `json:"role"`
}

// POST /api/admin/users/:id/role — superadmin only.
func SetRoleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body setRoleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		switch body.Role {
		case models.RoleUser, models.RoleAdmin, models.RoleSuperAdmin:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Role must be user, admin or superadmin")
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		actorID, _ := c.Locals(auth.CtxUserIDKey).(string)
		if actorID == user.ID {
			return fiber.NewError(fiber.StatusBadRequest, "You cannot change your own role")
		}

		if err := database.DB.Model(&user).Update("role", body.Role).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not change role")
		}
		return c.JSON(fiber.Map{"success": true})
	}
}
