package http_api

// routes sets up the routes for the HTTP server.
func (s *HTTPServer) routes() {
	s.router.GET("/health", s.health)

	api := s.router.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.POST("/telegram", s.telegramAuth)
	authRoutes.GET("/me", s.authRequired(), s.currentUser)
	authRoutes.POST("/verify", s.verifyToken)

	users := api.Group("/users", s.authRequired())
	users.GET("/profile", s.profile)
	users.PUT("/profile", s.updateProfile)
	users.GET("/stats", s.userStats)
	users.GET("/:id", s.userByID)

	tasks := api.Group("/tasks", s.authRequired())
	tasks.GET("", s.listTasks)
	tasks.GET("/user/available", s.availableTasks)
	tasks.GET("/user/completed", s.completedTasks)
	tasks.GET("/type/:type", s.tasksByType)
	tasks.GET("/:id", s.taskByID)
	tasks.POST("/:id/complete", s.completeTask)

	taskAdmin := tasks.Group("/admin", s.adminRequired())
	taskAdmin.POST("/create", s.createTask)
	taskAdmin.PUT("/:id", s.updateTask)
	taskAdmin.DELETE("/:id", s.deleteTask)

	rewards := api.Group("/rewards", s.authRequired())
	rewards.POST("/daily", s.claimDaily)
	rewards.POST("/spin", s.spinWheel)
	rewards.GET("/history", s.rewardHistory)

	referrals := api.Group("/referrals", s.authRequired())
	referrals.GET("/info", s.referralInfo)
	referrals.POST("/apply", s.applyReferralCode)
	referrals.GET("/leaderboard", s.referralLeaderboard)

	transactions := api.Group("/transactions", s.authRequired())
	transactions.GET("", s.transactionHistory)
	transactions.POST("/withdraw", s.requestWithdrawal)
	transactions.GET("/withdraw/:id", s.withdrawalStatus)
	transactions.DELETE("/withdraw/:id", s.cancelWithdrawal)
	transactions.PUT("/admin/withdraw/:id", s.adminRequired(), s.processWithdrawal)

	leaderboard := api.Group("/leaderboard", s.authRequired())
	leaderboard.GET("/balance", s.leaderboardByBalance)
	leaderboard.GET("/level", s.leaderboardByLevel)
	leaderboard.GET("/referrals", s.referralLeaderboard)
	leaderboard.GET("/rank", s.userRank)
}
