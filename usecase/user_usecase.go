package usecase

import (
	"context"
	"strconv"
	"time"

	"social-hub/domain/dto"
	"social-hub/domain/model"
	"social-hub/domain/repository"
	"social-hub/infrastructure/configuration"
	"social-hub/infrastructure/logger"
	"social-hub/infrastructure/utils"
)

type IUserUsecase interface {
	Login(ctx context.Context, req model.ReqLogin) dto.Res
	Register(ctx context.Context, req model.ReqRegister) dto.Res
}

type userUsecase struct {
	userRepo repository.IUser
}

func NewUserUsecase(userRepo repository.IUser) IUserUsecase {
	return &userUsecase{userRepo: userRepo}
}

func (u *userUsecase) Login(ctx context.Context, req model.ReqLogin) dto.Res {
	var res dto.Res
	user, err := u.userRepo.GetByUserName(ctx, req.UserName)
	if err != nil || user.Password != req.Password {
		res.ResponseCode = "401"
		res.ResponseMessage = "Invalid username or password"
		return res
	}

	token, err := utils.GenerateToken(map[string]interface{}{
		"iss":       strconv.FormatInt(user.ID, 10),
		"user_name": user.UserName,
		"iat":       utils.GetCurrentTime().Unix(),
		"exp":       utils.GetCurrentTime().Add(24 * time.Hour).Unix(),
	}, configuration.C.App.SecretKey)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while generating token")
		res.ResponseCode = "500"
		res.ResponseMessage = "Internal server error"
		return res
	}

	res.ResponseCode = "200"
	res.ResponseMessage = "Success"
	res.Data = map[string]interface{}{"token": token}
	return res
}

func (u *userUsecase) Register(ctx context.Context, req model.ReqRegister) dto.Res {
	var res dto.Res
	if req.UserName == "" || req.Password == "" {
		res.ResponseCode = "400"
		res.ResponseMessage = "user_name and password required"
		return res
	}
	if existing, err := u.userRepo.GetByUserName(ctx, req.UserName); err == nil && existing.ID != 0 {
		res.ResponseCode = "409"
		res.ResponseMessage = "Username already taken"
		return res
	}
	err := u.userRepo.CreateUser(ctx, model.User{
		Name:     req.Name,
		UserName: req.UserName,
		Password: req.Password,
	})
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while creating user")
		res.ResponseCode = "500"
		res.ResponseMessage = "Internal server error"
		return res
	}
	res.ResponseCode = "200"
	res.ResponseMessage = "Success"
	return res
}
