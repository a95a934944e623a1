package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes crée les index MongoDB au démarrage pour garder les requêtes
// chaudes performantes (commandes par client, email unique, avis par produit)
func EnsureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	indexes := map[*mongo.Collection][]mongo.IndexModel{
		Users(): {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		Orders(): {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		Products(): {
			{Keys: bson.D{{Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "in_stock", Value: 1}}},
		},
		Reviews(): {
			{Keys: bson.D{{Key: "product_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{
				Keys:    bson.D{{Key: "product_id", Value: 1}, {Key: "user_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
	}

	total := 0
	for coll, models := range indexes {
		names, err := coll.Indexes().CreateMany(ctx, models)
		if err != nil {
			log.Printf("⚠️ Erreur création index sur %s: %v", coll.Name(), err)
			continue
		}
		total += len(names)
	}

	log.Printf("✅ %d index MongoDB vérifiés", total)
}
