package model

// CategoryModel is a plain label used to classify activities.
type CategoryModel struct {
	ID   uint   `gorm:"column:id;primaryKey" json:"id"`
	Name string `gorm:"column:name;size:100;uniqueIndex;not null" json:"nom"`
}

func (CategoryModel) TableName() string {
	return "categories"
}
