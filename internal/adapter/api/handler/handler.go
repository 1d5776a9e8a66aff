package handler

import (
	"unimarket/internal/usecase"
)

var (
	authHandler    *AuthHandler
	userHandler    *UserHandler
	listingHandler *ListingHandler
	chatHandler    *ChatHandler
	adminHandler   *AdminHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	listingUseCase *usecase.ListingUseCase,
	chatUseCase *usecase.ChatUseCase,
	adminUseCase *usecase.AdminUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	listingHandler = NewListingHandler(listingUseCase)
	chatHandler = NewChatHandler(chatUseCase)
	adminHandler = NewAdminHandler(adminUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetListingHandler() *ListingHandler {
	return listingHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetAdminHandler() *AdminHandler {
	return adminHandler
}
