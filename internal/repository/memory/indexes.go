package memory

import "github.com/hashicorp/go-memdb"

var (
	tblUsers    = "users"
	tblClubs    = "clubs"
	tblMembers  = "club_members"
	tblRequests = "membership_requests"
	tblEvents   = "events"
)

var schema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tblUsers: {
			Name: tblUsers,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "ID"},
				},
				"email": {
					Name:    "email",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "Email", Lowercase: true},
				},
				"role": {
					Name:    "role",
					Indexer: &memdb.StringFieldIndex{Field: "Role"},
				},
			},
		},
		tblClubs: {
			Name: tblClubs,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "ID"},
				},
			},
		},
		tblMembers: {
			Name: tblMembers,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:   "id",
					Unique: true,
					Indexer: &memdb.CompoundIndex{
						Indexes: []memdb.Indexer{
							&memdb.StringFieldIndex{Field: "ClubID"},
							&memdb.StringFieldIndex{Field: "UserID"},
						},
					},
				},
				"club_id": {
					Name:    "club_id",
					Indexer: &memdb.StringFieldIndex{Field: "ClubID"},
				},
				"user_id": {
					Name:    "user_id",
					Indexer: &memdb.StringFieldIndex{Field: "UserID"},
				},
			},
		},
		tblRequests: {
			Name: tblRequests,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "ID"},
				},
				"user_id": {
					Name:    "user_id",
					Indexer: &memdb.StringFieldIndex{Field: "UserID"},
				},
				"status": {
					Name:    "status",
					Indexer: &memdb.StringFieldIndex{Field: "Status"},
				},
				"club_id_status": {
					Name: "club_id_status",
					Indexer: &memdb.CompoundIndex{
						Indexes: []memdb.Indexer{
							&memdb.StringFieldIndex{Field: "ClubID"},
							&memdb.StringFieldIndex{Field: "Status"},
						},
					},
				},
				"user_id_club_id_status": {
					Name: "user_id_club_id_status",
					Indexer: &memdb.CompoundIndex{
						Indexes: []memdb.Indexer{
							&memdb.StringFieldIndex{Field: "UserID"},
							&memdb.StringFieldIndex{Field: "ClubID"},
							&memdb.StringFieldIndex{Field: "Status"},
						},
					},
				},
			},
		},
		tblEvents: {
			Name: tblEvents,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "ID"},
				},
			},
		},
	},
}
