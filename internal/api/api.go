package api

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"marketplace-scout/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type APIHandler struct {
	store    *store.ListingStore
	upgrader websocket.Upgrader
}

func SetupRoutes(r *gin.Engine, st *store.ListingStore) *APIHandler {
	handler := &APIHandler{
		store: st,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	// Score lookup for the overlay. Kept at the root so the page script can
	// hit it with a one-liner.
	r.GET("/check/:id", handler.CheckListing)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/stats", handler.GetStats)
		apiGroup.GET("/listings", handler.ListListings)
		apiGroup.GET("/duplicates", handler.GetDuplicates)
	}

	r.GET("/ws", handler.StatsFeed)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "running"})
	})

	return handler
}

// CheckListing answers the overlay's poll. It always returns 200: the page
// script treats any non-200 as "server down" and stops polling, so lookup
// problems are reported in the body instead.
func (h *APIHandler) CheckListing(c *gin.Context) {
	itemID := c.Param("id")

	listing, err := h.store.FindByURLFragment(itemID)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"error": err.Error()})
		return
	}
	if listing == nil || !listing.IsEvaluated() {
		c.JSON(http.StatusOK, gin.H{"evaluated": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"evaluated": true,
		"flip":      *listing.FlipScore,
		"weird":     *listing.WeirdnessScore,
		"scam":      *listing.ScamLikelihood,
		"notes":     listing.Notes,
	})
}

func (h *APIHandler) GetStats(c *gin.Context) {
	stats, err := h.store.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListListings: GET /api/listings?q=&filter=all|deals|scams|evaluated&sort=date|price|flip|scam&limit=50
func (h *APIHandler) ListListings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	opts := store.SearchOptions{
		Term:   c.Query("q"),
		Filter: c.DefaultQuery("filter", store.FilterAll),
		Sort:   c.DefaultQuery("sort", store.SortDate),
		Limit:  limit,
	}
	listings, err := h.store.Search(opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(listings), "listings": listings})
}

func (h *APIHandler) GetDuplicates(c *gin.Context) {
	groups, err := h.store.FindDuplicateGroups()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(groups), "groups": groups})
}

// StatsFeed pushes the stats snapshot to dashboard clients every few
// seconds over a websocket. Push only; nothing is read from the client
// beyond close frames.
func (h *APIHandler) StatsFeed(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("⚠️ WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Drain the read side so close frames are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		stats, err := h.store.Stats()
		if err != nil {
			log.Printf("⚠️ Stats feed: %v", err)
			return
		}
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteJSON(stats); err != nil {
			return
		}
		select {
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
		}
	}
}
