// Package config provides configuration loading for vangoext projects.
//
// The configuration is stored in vangoext.json at the project root. Every
// value can be overridden by an environment variable named after its key,
// e.g. VANGOEXT_SERVER_PORT or VANGOEXT_PUBLISH_BUCKET.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "host": "localhost",
//	    "port": 4000,
//	    "watch": true
//	  },
//	  "bridge": {
//	    "url": "ws://localhost:9000/bridge",
//	    "timeout": "5s"
//	  },
//	  "theme": {
//	    "color-accent": "#2563eb"
//	  },
//	  "components": {
//	    "dir": "components",
//	    "namespace": "Local"
//	  },
//	  "publish": {
//	    "bucket": "my-catalogs",
//	    "key": "vangoext/catalog.json"
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Addr())
package config
