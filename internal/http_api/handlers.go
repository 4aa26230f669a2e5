package http_api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/onehunt/onehuntbot/internal/models"
	"github.com/onehunt/onehuntbot/pkg/validation"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// TelegramAuthRequest is the JSON body for register/login via Telegram.
type TelegramAuthRequest struct {
	TelegramID   int64  `json:"telegramId" binding:"required"`
	Username     string `json:"username" binding:"required"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	ReferralCode string `json:"referralCode"`
}

// UpdateProfileRequest is the JSON body for profile updates.
type UpdateProfileRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ApplyReferralRequest is the JSON body for a late referral code application.
type ApplyReferralRequest struct {
	ReferralCode string `json:"referralCode" binding:"required"`
}

// paramUint parses a numeric path parameter.
func paramUint(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return uint(v), true
}

// pageQuery parses page/limit query parameters with defaults.
func pageQuery(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageLimit {
		limit = defaultPageLimit
	}
	return page, limit
}

func limitQuery(c *gin.Context) int {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(maxPageLimit)))
	return limit
}

// health is a handler for the /health endpoint.
func (s *HTTPServer) health(c *gin.Context) {
	respond(c, http.StatusOK, "", gin.H{"status": "ok"})
}

// telegramAuth registers or logs in a user coming from the Telegram mini-app.
func (s *HTTPServer) telegramAuth(c *gin.Context) {
	var req TelegramAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Debugw("Invalid request body", "error", err)
		fail(c, http.StatusBadRequest, "Telegram ID and username are required")
		return
	}

	if req.ReferralCode != "" {
		req.ReferralCode = validation.NormalizeReferralCode(req.ReferralCode)
		if err := validation.ValidateReferralCode(req.ReferralCode); err != nil {
			fail(c, http.StatusBadRequest, "Invalid referral code: "+err.Error())
			return
		}
	}

	result, err := s.hunt.TelegramAuth(models.TelegramAuthInput{
		TelegramID:   req.TelegramID,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		s.failErr(c, err)
		return
	}

	token, err := s.tokens.Issue(result.User.ID, result.User.IsAdmin)
	if err != nil {
		s.failErr(c, err)
		return
	}

	status := http.StatusOK
	message := "Login successful"
	if result.Created {
		status = http.StatusCreated
		message = "Registration successful"
	}

	respond(c, status, message, gin.H{
		"token": token,
		"user":  result.User,
	})
}

// currentUser returns the authenticated user's full record.
func (s *HTTPServer) currentUser(c *gin.Context) {
	user, err := s.hunt.GetUser(s.userID(c))
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "", user)
}

// verifyToken checks a bearer token and reports who it belongs to.
func (s *HTTPServer) verifyToken(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		fail(c, http.StatusUnauthorized, "No token provided")
		return
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		fail(c, http.StatusUnauthorized, "Invalid token")
		return
	}

	user, err := s.hunt.GetUser(claims.UserID)
	if err != nil {
		fail(c, http.StatusUnauthorized, "Invalid token")
		return
	}

	respond(c, http.StatusOK, "", gin.H{
		"userId":   user.ID,
		"username": user.Username,
		"isValid":  true,
	})
}

func (s *HTTPServer) profile(c *gin.Context) {
	user, err := s.hunt.GetUser(s.userID(c))
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "", user)
}

func (s *HTTPServer) updateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, err := s.hunt.UpdateProfile(s.userID(c), req.Username, req.FirstName, req.LastName)
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Profile updated", user)
}

func (s *HTTPServer) userStats(c *gin.Context) {
	stats, err := s.hunt.GetUserStats(s.userID(c))
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "", stats)
}

// userByID returns a public view of another user.
func (s *HTTPServer) userByID(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	user, err := s.hunt.GetUser(id)
	if err != nil {
		s.failErr(c, err)
		return
	}

	respond(c, http.StatusOK, "", gin.H{
		"id":        user.ID,
		"username":  user.Username,
		"firstName": user.FirstName,
		"level":     user.Level,
		"xp":        user.XP,
		"balance":   user.Balance,
	})
}

func (s *HTTPServer) claimDaily(c *gin.Context) {
	result, err := s.hunt.ClaimDailyReward(s.userID(c))
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Daily reward claimed", result)
}

func (s *HTTPServer) spinWheel(c *gin.Context) {
	result, err := s.hunt.SpinWheel(s.userID(c))
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Spin complete", result)
}

func (s *HTTPServer) rewardHistory(c *gin.Context) {
	page, limit := pageQuery(c)
	rewards, pagination, err := s.hunt.RewardHistory(s.userID(c), page, limit)
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{
		"rewards":    rewards,
		"pagination": pagination,
	})
}

func (s *HTTPServer) referralInfo(c *gin.Context) {
	info, err := s.hunt.ReferralInfo(s.userID(c))
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "", info)
}

func (s *HTTPServer) applyReferralCode(c *gin.Context) {
	var req ApplyReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Referral code is required")
		return
	}

	code := validation.NormalizeReferralCode(req.ReferralCode)
	if err := validation.ValidateReferralCode(code); err != nil {
		fail(c, http.StatusBadRequest, "Invalid referral code: "+err.Error())
		return
	}

	referrer, err := s.hunt.ApplyReferralCode(s.userID(c), code)
	if err != nil {
		s.failErr(c, err)
		return
	}

	respond(c, http.StatusOK, "Referral code applied", gin.H{
		"referrer": gin.H{
			"id":       referrer.ID,
			"username": referrer.Username,
		},
	})
}

func (s *HTTPServer) referralLeaderboard(c *gin.Context) {
	stats, err := s.hunt.TopReferrers(limitQuery(c))
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "", stats)
}

func (s *HTTPServer) leaderboardByBalance(c *gin.Context) {
	entries, err := s.hunt.TopByBalance(limitQuery(c))
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "", entries)
}

func (s *HTTPServer) leaderboardByLevel(c *gin.Context) {
	entries, err := s.hunt.TopByLevel(limitQuery(c))
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "", entries)
}

func (s *HTTPServer) userRank(c *gin.Context) {
	rank, err := s.hunt.UserRank(s.userID(c))
	if err != nil {
		s.failErr(c, err)
		return
	}
	respond(c, http.StatusOK, "", rank)
}
