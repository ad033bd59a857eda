package storage

import (
	"log"
	"os"

	"github.com/cloudinary/cloudinary-go/v2"
)

var Cloudinary *cloudinary.Cloudinary

func InitializeCloudinary() {
	url := os.Getenv("CLOUDINARY_URL")
	if url == "" {
		log.Println("CLOUDINARY_URL not set, area image uploads disabled")
		return
	}

	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		log.Printf("[error] failed to initialize cloudinary: %v", err)
		return
	}
	Cloudinary = cld
}
