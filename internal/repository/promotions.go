package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"mlbschedule/ingestion/internal/metrics"
	"mlbschedule/ingestion/internal/models"
)

// PromotionRepository handles promotion database operations. Promotions are
// only ever written in bulk: a game's set is deleted and rewritten whole.
type PromotionRepository struct {
	db *Database
}

// SaveAll links the promotions to the game and inserts them.
func (r *PromotionRepository) SaveAll(ctx context.Context, gameID int, promos []*models.Promotion) error {
	query := `
		INSERT INTO promotions (name, thumbnail_url, offer_type, game_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	for _, promo := range promos {
		promo.GameID = gameID
		err := r.db.Pool.QueryRow(
			ctx, query,
			promo.Name, promo.ThumbnailURL, promo.OfferType, gameID,
		).Scan(&promo.ID)
		if err != nil {
			metrics.RecordDBQuery("insert", "promotions", "error")
			return fmt.Errorf("failed to save promotion %q: %w", promo.Name, err)
		}
		metrics.RecordDBQuery("insert", "promotions", "success")
	}

	if len(promos) > 0 {
		log.Debug().Int("game_id", gameID).Int("count", len(promos)).Msg("Promotions saved")
	}
	return nil
}

// DeleteForGame removes every promotion linked to the game.
func (r *PromotionRepository) DeleteForGame(ctx context.Context, gameID int) error {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM promotions WHERE game_id = $1`, gameID)
	if err != nil {
		metrics.RecordDBQuery("delete", "promotions", "error")
		return fmt.Errorf("failed to delete promotions for game %d: %w", gameID, err)
	}
	metrics.RecordDBQuery("delete", "promotions", "success")

	if result.RowsAffected() > 0 {
		log.Debug().
			Int("game_id", gameID).
			Int64("count", result.RowsAffected()).
			Msg("Promotions deleted")
	}
	return nil
}

// ListForGames retrieves the promotions of every listed game.
func (r *PromotionRepository) ListForGames(ctx context.Context, gameIDs []int) ([]*models.Promotion, error) {
	query := `
		SELECT id, name, thumbnail_url, offer_type, game_id
		FROM promotions
		WHERE game_id = ANY($1)
		ORDER BY game_id, id
	`

	rows, err := r.db.Pool.Query(ctx, query, gameIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list promotions: %w", err)
	}
	defer rows.Close()

	var promos []*models.Promotion
	for rows.Next() {
		var promo models.Promotion
		err := rows.Scan(&promo.ID, &promo.Name, &promo.ThumbnailURL, &promo.OfferType, &promo.GameID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan promotion: %w", err)
		}
		promos = append(promos, &promo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating promotions: %w", err)
	}
	return promos, nil
}
