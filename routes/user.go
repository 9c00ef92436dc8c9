package routes

import (
	"hotel-platform-server/models"
	"hotel-platform-server/storage"
	"hotel-platform-server/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	// Token refresh needs to look the user back up without utils importing
	// models, so the resolver is injected here.
	utils.RefreshTokenResolver = func(userID uint) (uint, string, error) {
		var user models.User
		if err := storage.DB.First(&user, userID).Error; err != nil {
			return 0, "", err
		}
		return user.CompanyID, user.Role, nil
	}
}

func Register(ctx iris.Context) {
	var input RegisterUserInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var existing models.User
	err = storage.DB.Where("email = ?", input.Email).First(&existing).Error
	if err == nil {
		utils.CreateError(iris.StatusConflict, "Conflict", "email already registered", ctx)
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.CreateInternalServerError(ctx)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	user := models.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Password:  string(hashed),
		CompanyID: input.CompanyID,
		Role:      models.RoleStaff,
		IsActive:  true,
	}
	if user.CompanyID == 0 {
		user.CompanyID = utils.DefaultCompanyID
	}
	if err := storage.DB.Create(&user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	returnUser(user, ctx)
}

func Login(ctx iris.Context) {
	var input LoginUserInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	err = storage.DB.Where("email = ?", input.Email).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.CreateError(iris.StatusUnauthorized, "Credentials Error", "invalid email or password", ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	if !user.IsActive {
		utils.CreateError(iris.StatusForbidden, "Forbidden", "account is deactivated", ctx)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", "invalid email or password", ctx)
		return
	}

	returnUser(user, ctx)
}

func GetCurrentUser(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	user.Password = ""
	ctx.JSON(user)
}

func returnUser(user models.User, ctx iris.Context) {
	tokenPair, err := utils.CreateTokenPair(user.ID, user.CompanyID, user.Role)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"ID":           user.ID,
		"firstName":    user.FirstName,
		"lastName":     user.LastName,
		"email":        user.Email,
		"companyID":    user.CompanyID,
		"role":         user.Role,
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}

type RegisterUserInput struct {
	FirstName string `json:"firstName" validate:"required,max=256"`
	LastName  string `json:"lastName" validate:"required,max=256"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=256"`
	CompanyID uint   `json:"companyID"`
}

type LoginUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
